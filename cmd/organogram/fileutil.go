package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

func ensureDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return withCode(exitUsage, errors.New("--output is required"))
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "mkdir %s", path))
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "mkdir %s", dir))
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return withCode(exitIO, errors.Wrap(err, "json marshal"))
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "write %s", path))
	}
	return nil
}

func readJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return withCode(exitUsage, errors.Wrapf(err, "read %s", path))
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return withCode(exitRejected, errors.Wrapf(err, "decode %s", path))
	}
	return nil
}

// writeCSVFile writes header and records, quoting every field.
func writeCSVFile(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "mkdir %s", dir))
	}
	var buf bytes.Buffer
	writeQuotedRecord(&buf, header)
	for _, rec := range records {
		writeQuotedRecord(&buf, rec)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "write %s", path))
	}
	return nil
}

func writeQuotedRecord(buf *bytes.Buffer, rec []string) {
	for i, field := range rec {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

// writePlainCSVFile writes records with minimal quoting.
func writePlainCSVFile(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "mkdir %s", dir))
	}
	f, err := os.Create(path)
	if err != nil {
		return withCode(exitIO, errors.Wrapf(err, "create %s", path))
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return withCode(exitIO, errors.Wrapf(err, "write %s", path))
	}
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return withCode(exitIO, errors.Wrapf(err, "write %s", path))
	}
	if err := f.Close(); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "close %s", path))
	}
	return nil
}
