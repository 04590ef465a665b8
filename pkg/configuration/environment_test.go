package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_LoadsExistingFilesOnly(t *testing.T) {
	tmp := t.TempDir()
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "ORGANOGRAM_TEST_ENV_LOAD=ok\n")

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("ORGANOGRAM_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("ORGANOGRAM_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("ORGANOGRAM_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from .env.local, got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORGANOGRAM_MAX_REPORTING_DEPTH", "")
	t.Setenv("LOG_LEVEL", "")
	_ = os.Unsetenv("ORGANOGRAM_MAX_REPORTING_DEPTH")
	_ = os.Unsetenv("LOG_LEVEL")

	c, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(c.Unload)

	if c.MaxReportingDepth != DefaultMaxReportingDepth {
		t.Fatalf("expected depth %d, got %d", DefaultMaxReportingDepth, c.MaxReportingDepth)
	}
	if c.Sheets.Senior != DefaultSeniorSheet || c.Sheets.Junior != DefaultJuniorSheet {
		t.Fatalf("unexpected sheet names: %+v", c.Sheets)
	}
	if len(c.Sources.TriplestoreOrgs) != 1 || c.Sources.TriplestoreOrgs[0] != "Ministry of Defence" {
		t.Fatalf("unexpected triplestore orgs: %v", c.Sources.TriplestoreOrgs)
	}
	if c.Logger() == nil {
		t.Fatalf("expected logger")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("ORGANOGRAM_MAX_REPORTING_DEPTH", "0")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected depth validation error")
	}

	t.Setenv("ORGANOGRAM_MAX_REPORTING_DEPTH", "50")
	t.Setenv("LOG_LEVEL", "chatty")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected log level validation error")
	}
}

func TestLoad_TrimsSourceLists(t *testing.T) {
	t.Setenv("ORGANOGRAM_EXCLUDED_UPLOAD_ORGS", " Army , ,Navy")
	c, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(c.Unload)
	if len(c.Sources.ExcludedUploadOrgs) != 2 || c.Sources.ExcludedUploadOrgs[0] != "Army" || c.Sources.ExcludedUploadOrgs[1] != "Navy" {
		t.Fatalf("unexpected excluded orgs: %q", c.Sources.ExcludedUploadOrgs)
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
