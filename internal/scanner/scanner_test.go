package scanner

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	apperrors "github.com/jittakal/adzip/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanner_Scan_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := New(testLogger()).Scan(path)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Scan() returned %d items, want 1", len(items))
	}
	if items[0].EntryName != "notes.txt" {
		t.Errorf("EntryName = %q, want notes.txt", items[0].EntryName)
	}
	if items[0].SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", items[0].SourcePath, path)
	}
}

func TestScanner_Scan_Directory(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "proj")
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"a.bin", filepath.Join("sub", "b.png")} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	items, err := New(testLogger()).Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	var names []string
	for _, item := range items {
		names = append(names, item.EntryName)
	}
	sort.Strings(names)

	want := []string{"a.bin", "sub/b.png"}
	if len(names) != len(want) {
		t.Fatalf("Scan() returned %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestScanner_Scan_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	items, err := New(testLogger()).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Scan() returned %d items, want 0", len(items))
	}
}

func TestScanner_Scan_MissingInput(t *testing.T) {
	_, err := New(testLogger()).Scan(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, apperrors.ErrInputNotFound) {
		t.Errorf("Scan() error = %v, want ErrInputNotFound", err)
	}
}

func TestScanner_Scan_SkipsNonRegularFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "real.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	items, err := New(testLogger()).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Scan() returned %d items, want 1 (symlink skipped)", len(items))
	}
}

func TestOutputPath(t *testing.T) {
	sep := string(os.PathSeparator)

	tests := []struct {
		input string
		want  string
	}{
		{"notes.txt", "notes.txt.zip"},
		{"proj", "proj.zip"},
		{"proj" + sep, "proj.zip"},
		{sep + "data" + sep + "proj" + sep, sep + "data" + sep + "proj.zip"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.input); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
