package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestReportRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	storedPath := filepath.Join(tmpDir, "session.db")
	if err := os.WriteFile(storedPath, []byte("db bytes"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r.Store("session.db", storedPath)
	r.StoreData("config.yaml", []byte("version: 1\n"))
	r.Store("missing.log", filepath.Join(tmpDir, "does-not-exist.log"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("report is not a readable archive: %v", err)
	}
	defer zr.Close()

	want := map[string]bool{"MANIFEST": false, "session.db": false, "config.yaml": false}
	for _, f := range zr.File {
		if f.Name == "missing.log" {
			t.Error("absent source file must be skipped, not archived")
		}
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("archive is missing entry %q", name)
		}
	}
}

func TestReportStoreOverwritePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("x", "/tmp/a")

	defer func() {
		if recover() == nil {
			t.Error("Store() with conflicting path should panic")
		}
	}()
	r.Store("x", "/tmp/b")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
