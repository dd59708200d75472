package blockarc

import (
	"path/filepath"
	"testing"
)

func TestFileBackendCreateWriteReadReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.arc")

	fb, err := CreateFileBackend(path, 32, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, err := fb.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	in := make([]byte, 32)
	for i := range in {
		in[i] = byte(i)
	}
	if _, err := fb.WriteBlock(id, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fb.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenFileBackend(path, 32)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	out := make([]byte, 32)
	if _, err := reopened.ReadBlock(id, out); err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("byte %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestFileBackendAcquireZeroFills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.arc")

	fb, err := CreateFileBackend(path, 16, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer fb.Close()

	id, err := fb.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	out := make([]byte, 16)
	if _, err := fb.ReadBlock(id, out); err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestFileBackendOverwriteTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.arc")

	fb, err := CreateFileBackend(path, 16, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fb.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := fb.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	fb2, err := CreateFileBackend(path, 16, true)
	if err != nil {
		t.Fatalf("re-create with overwrite: %v", err)
	}
	defer fb2.Close()

	if fb2.next != 0 {
		t.Fatalf("next = %d, want 0 after truncating overwrite", fb2.next)
	}
}
