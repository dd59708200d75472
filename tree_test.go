package blockarc

import "testing"

func newTestContainer(blockSize uint32, idSize int) *BufContainer {
	return NewBufContainer(NewMemBackend(blockSize, idSize))
}

// TestTreeDenseAllocation checks that after n acquires, lookup(i) is present for i < n and
// absent for i >= n.
func TestTreeDenseAllocation(t *testing.T) {
	c := newTestContainer(32, 8) // ipn = 4
	tree := NewTree()

	const n = 20
	for i := 0; i < n; i++ {
		if _, err := tree.Acquire(c); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	for i := 0; i < n; i++ {
		id, ok, err := tree.Lookup(c, i)
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
		if !ok || id.IsNull() {
			t.Fatalf("lookup %d: expected present non-null id", i)
		}
	}

	if _, ok, err := tree.Lookup(c, n); err != nil {
		t.Fatalf("lookup %d: %v", n, err)
	} else if ok {
		t.Fatalf("lookup %d: expected absent", n)
	}
}

// TestTreeStableIDs checks that once lookup(i) returns X, it keeps returning X after
// further acquires.
func TestTreeStableIDs(t *testing.T) {
	c := newTestContainer(32, 8)
	tree := NewTree()

	first, err := tree.Acquire(c)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := tree.Acquire(c); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		id, ok, err := tree.Lookup(c, 0)
		if err != nil || !ok {
			t.Fatalf("lookup 0 after acquire %d: ok=%v err=%v", i, ok, err)
		}
		if id != first {
			t.Fatalf("lookup 0 changed: got %v, want %v", id, first)
		}
	}
}

// TestTreeSequentialAcquire checks that the k-th successful acquire matches lookup(k-1).
func TestTreeSequentialAcquire(t *testing.T) {
	c := newTestContainer(32, 8)
	tree := NewTree()

	for k := 1; k <= 30; k++ {
		id, err := tree.Acquire(c)
		if err != nil {
			t.Fatalf("acquire %d: %v", k, err)
		}
		got, ok, err := tree.Lookup(c, k-1)
		if err != nil || !ok {
			t.Fatalf("lookup %d: ok=%v err=%v", k-1, ok, err)
		}
		if got != id {
			t.Fatalf("lookup %d: got %v, want %v", k-1, got, id)
		}
	}
}

// TestTreeCapacity checks that the (12+ipn+ipn^2+ipn^3+1)-th acquire fails with ErrFull.
func TestTreeCapacity(t *testing.T) {
	c := newTestContainer(32, 8) // ipn = 4
	tree := NewTree()

	const ipn = 4
	capacity := uint64(numDirect + ipn + ipn*ipn + ipn*ipn*ipn)

	for i := uint64(0); i < capacity; i++ {
		if _, err := tree.Acquire(c); err != nil {
			t.Fatalf("acquire %d/%d: %v", i, capacity, err)
		}
	}

	if _, err := tree.Acquire(c); err != ErrFull {
		t.Fatalf("acquire past capacity: got %v, want ErrFull", err)
	}
}

// TestTreeEncodeDecodeRoundTrip checks that Encode/DecodeTree preserves direct, indirect,
// d_indirect, t_indirect and nblocks.
func TestTreeEncodeDecodeRoundTrip(t *testing.T) {
	c := newTestContainer(32, 8)
	tree := NewTree()

	for i := 0; i < 25; i++ {
		if _, err := tree.Acquire(c); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	buf := make([]byte, tree.EncodedSize(c.IDSize()))
	cur := NewCursor(buf)
	if err := tree.Encode(cur, c.IDSize()); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeTree(NewCursor(buf), c.IDSize())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.nblocks != tree.nblocks {
		t.Fatalf("nblocks mismatch: got %d, want %d", decoded.nblocks, tree.nblocks)
	}
	if decoded.direct != tree.direct {
		t.Fatalf("direct mismatch")
	}
	if decoded.indir != tree.indir || decoded.dindir != tree.dindir || decoded.tindir != tree.tindir {
		t.Fatalf("indirect pointers mismatch")
	}
}
