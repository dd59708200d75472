package blockarc

import "testing"

func TestMemBackendAcquireSequential(t *testing.T) {
	m := NewMemBackend(16, 8)

	ids := make([]BlockID, 5)
	for i := range ids {
		id, err := m.Acquire()
		if err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		ids[i] = id
	}
	for i := range ids {
		if idToUint64(ids[i]) != uint64(i) {
			t.Fatalf("id %d decodes to %d, want %d", i, idToUint64(ids[i]), i)
		}
	}
}

func TestMemBackendReadAfterWrite(t *testing.T) {
	m := NewMemBackend(16, 8)
	id, err := m.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	in := []byte("0123456789abcdef")
	if _, err := m.WriteBlock(id, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := make([]byte, 16)
	if _, err := m.ReadBlock(id, out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(out) != string(in) {
		t.Fatalf("read back %q, want %q", out, in)
	}
}

func TestMemBackendFreshBlockIsZero(t *testing.T) {
	m := NewMemBackend(8, 8)
	id, err := m.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	out := make([]byte, 8)
	if _, err := m.ReadBlock(id, out); err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestMemBackendIDSizeClamped(t *testing.T) {
	m := NewMemBackend(16, 0)
	if m.IDSize() != 8 {
		t.Fatalf("idSize = %d, want 8 (default)", m.IDSize())
	}
	m2 := NewMemBackend(16, 100)
	if m2.IDSize() != 8 {
		t.Fatalf("idSize = %d, want 8 (clamped)", m2.IDSize())
	}
}
