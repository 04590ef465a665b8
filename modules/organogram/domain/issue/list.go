package issue

type List []Issue

func (l *List) Add(issues ...Issue) {
	*l = append(*l, issues...)
}

// Dedupe drops repeated texts, keeping the first occurrence in place.
func (l List) Dedupe() List {
	seen := make(map[string]struct{}, len(l))
	out := make(List, 0, len(l))
	for _, iss := range l {
		key := iss.Text()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, iss)
	}
	return out
}

func (l List) Texts() []string {
	out := make([]string, len(l))
	for i, iss := range l {
		out[i] = iss.Text()
	}
	return out
}

func (l List) HasFatal() bool {
	for _, iss := range l {
		if iss.IsFatal() {
			return true
		}
	}
	return false
}

func (l List) OfKind(kind Kind) List {
	out := List{}
	for _, iss := range l {
		if iss.Kind == kind {
			out = append(out, iss)
		}
	}
	return out
}

// CountByKind is used for metrics and report summaries.
func (l List) CountByKind() map[Kind]int {
	out := map[Kind]int{}
	for _, iss := range l {
		out[iss.Kind]++
	}
	return out
}

func Concat(lists ...List) List {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make(List, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
