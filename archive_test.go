package blockarc_test

import (
	"testing"

	"github.com/KarpelesLab/blockarc"
)

func newArchive(t *testing.T, blockSize uint32) *blockarc.Archive {
	t.Helper()
	backend := blockarc.NewMemBackend(blockSize, 2)
	ar, err := blockarc.Create(backend, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return ar
}

func TestArchiveAppendAndEnumerate(t *testing.T) {
	ar := newArchive(t, 64)

	mut, err := ar.Append("a.txt", 0644).Build()
	if err != nil {
		t.Fatalf("append a.txt: %v", err)
	}
	if err := mut.WriteAll([]byte("hello")); err != nil {
		t.Fatalf("write a.txt: %v", err)
	}

	if _, err := ar.AppendDirectory("sub", 0755).Build(); err != nil {
		t.Fatalf("append sub: %v", err)
	}

	if _, err := ar.AppendSymlink("link", "a.txt"); err != nil {
		t.Fatalf("append link: %v", err)
	}

	if ar.FileCount() != 3 {
		t.Fatalf("file count = %d, want 3", ar.FileCount())
	}

	var names []string
	entry, ok, err := ar.First()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	for ok {
		names = append(names, entry.Name())
		entry, ok, err = entry.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	want := []string{"a.txt", "sub", "link"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestArchiveFileContentRoundTrip(t *testing.T) {
	ar := newArchive(t, 64)

	mut, err := ar.Append("data.bin", 0644).Build()
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	content := make([]byte, 300)
	for i := range content {
		content[i] = byte(i * 7)
	}
	if err := mut.WriteAll(content); err != nil {
		t.Fatalf("write_all: %v", err)
	}

	entry, ok, err := ar.First()
	if err != nil || !ok {
		t.Fatalf("first: ok=%v err=%v", ok, err)
	}
	fe, ok := entry.(*blockarc.FileEntry)
	if !ok {
		t.Fatalf("expected *FileEntry, got %T", entry)
	}
	got, err := fe.ReadVec()
	if err != nil {
		t.Fatalf("read_vec: %v", err)
	}
	if len(got) != len(content) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(content))
	}
	for i := range content {
		if got[i] != content[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], content[i])
		}
	}
}

func TestArchiveSymlinkTarget(t *testing.T) {
	ar := newArchive(t, 64)

	sl, err := ar.AppendSymlink("shortcut", "target/path")
	if err != nil {
		t.Fatalf("append symlink: %v", err)
	}
	if sl.Target() != "target/path" {
		t.Fatalf("target = %q, want %q", sl.Target(), "target/path")
	}
	if sl.Kind() != blockarc.KindSymlink {
		t.Fatalf("kind = %v, want symlink", sl.Kind())
	}
}

func TestArchiveOpenPersistsAcrossInstances(t *testing.T) {
	backend := blockarc.NewMemBackend(64, 2)

	ar, err := blockarc.Create(backend, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ar.Append("f", 0644).Build(); err != nil {
		t.Fatalf("append: %v", err)
	}

	reopened, err := blockarc.Open(backend)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if reopened.FileCount() != 1 {
		t.Fatalf("file count = %d, want 1", reopened.FileCount())
	}

	entry, ok, err := reopened.First()
	if err != nil || !ok {
		t.Fatalf("first: ok=%v err=%v", ok, err)
	}
	if entry.Name() != "f" {
		t.Fatalf("name = %q, want %q", entry.Name(), "f")
	}
}

func TestArchiveEmptyHasNoEntries(t *testing.T) {
	ar := newArchive(t, 64)
	_, ok, err := ar.First()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if ok {
		t.Fatalf("expected empty archive to have no entries")
	}
}
