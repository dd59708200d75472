package blockarc_test

import (
	"io/fs"
	"testing"

	"github.com/KarpelesLab/blockarc"
)

func TestFSReadDirRoot(t *testing.T) {
	backend := blockarc.NewMemBackend(64, 2)
	ar, err := blockarc.Create(backend, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mut, err := ar.Append("hello.txt", 0644).Build()
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mut.WriteAll([]byte("hi")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ar.AppendDirectory("empty-dir", 0755).Build(); err != nil {
		t.Fatalf("append dir: %v", err)
	}

	fsys := ar.FS()

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// fs.ReadDir sorts by name, so "empty-dir" comes before "hello.txt".
	if entries[1].Name() != "hello.txt" {
		t.Fatalf("entries[1] = %q, want hello.txt", entries[1].Name())
	}
	if !entries[0].IsDir() {
		t.Fatalf("entries[0] expected to be a directory")
	}
}

func TestFSReadFile(t *testing.T) {
	backend := blockarc.NewMemBackend(64, 2)
	ar, err := blockarc.Create(backend, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mut, err := ar.Append("hello.txt", 0644).Build()
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mut.WriteAll([]byte("hello world")); err != nil {
		t.Fatalf("write: %v", err)
	}

	fsys := ar.FS()
	data, err := fs.ReadFile(fsys, "hello.txt")
	if err != nil {
		t.Fatalf("readfile: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("content = %q, want %q", data, "hello world")
	}
}

func TestFSStatUnknownName(t *testing.T) {
	backend := blockarc.NewMemBackend(64, 2)
	ar, err := blockarc.Create(backend, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fsys := ar.FS()
	if _, err := fs.Stat(fsys, "nope"); err == nil {
		t.Fatalf("expected error for missing entry")
	}
}

func TestFSRootStat(t *testing.T) {
	backend := blockarc.NewMemBackend(64, 2)
	ar, err := blockarc.Create(backend, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	info, err := fs.Stat(ar.FS(), ".")
	if err != nil {
		t.Fatalf("stat .: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("root expected to report as a directory")
	}
}
