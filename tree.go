package blockarc

import "log"

// numDirect is the number of direct block pointers held inline in a Tree, matching
// classical Unix inode layout.
const numDirect = 12

// Tree is the per-archive block-index structure that maps a dense logical block index to
// a backend block id, allocating new backend blocks on demand. It mirrors the classical
// Unix inode pointer layout: 12 direct pointers, then single/double/triple indirect
// pointers, each stepping up the address space by a factor of ipn = blockSize/idSize.
//
// A Tree does not own a BufContainer; every method takes one explicitly, the way the
// original Rust source threads a &mut Container through every call (translated here into
// an explicit parameter instead of a borrow).
type Tree struct {
	direct  [numDirect]BlockID
	indir   BlockID
	dindir  BlockID
	tindir  BlockID
	nblocks uint64

	cache nodeCache
}

// NewTree returns an empty tree (no blocks allocated).
func NewTree() *Tree {
	return &Tree{}
}

// NBlocks returns the number of logical blocks currently allocated.
func (t *Tree) NBlocks() uint64 {
	return t.nblocks
}

// capacity returns 12 + ipn + ipn^2 + ipn^3, the address space size for container c.
func (t *Tree) capacity(c *BufContainer) uint64 {
	ipn := uint64(idsPerNode(c))
	return numDirect + ipn + ipn*ipn + ipn*ipn*ipn
}

// Acquire allocates the next logical block (index NBlocks()) and returns its backend id.
// Allocation is strictly sequential: Acquire always targets index NBlocks(), then
// increments it. Returns ErrFull once the tree's address space is exhausted.
func (t *Tree) Acquire(c *BufContainer) (BlockID, error) {
	if t.nblocks >= t.capacity(c) {
		return BlockID{}, ErrFull
	}
	return t.resolve(c, int(t.nblocks), true)
}

// Lookup returns the backend id assigned to logical index idx, or (BlockID{}, false) if
// idx is beyond NBlocks() or the slot it maps to is unexpectedly null.
func (t *Tree) Lookup(c *BufContainer, idx int) (BlockID, bool, error) {
	if uint64(idx) >= t.nblocks {
		return BlockID{}, false, nil
	}
	id, err := t.resolve(c, idx, false)
	if err != nil {
		return BlockID{}, false, err
	}
	if id.IsNull() {
		return BlockID{}, false, nil
	}
	return id, true, nil
}

// resolve dispatches a logical index to its class (direct / single / double / triple
// indirect) and drives the matching resolution path, per spec.md §4.3's table.
func (t *Tree) resolve(c *BufContainer, idx int, acquire bool) (BlockID, error) {
	ipn := idsPerNode(c)

	switch {
	case idx < numDirect:
		return t.resolveDirect(c, idx, acquire)
	case idx < numDirect+ipn:
		return t.resolveSingle(c, idx-numDirect, acquire)
	case idx < numDirect+ipn+ipn*ipn:
		return t.resolveDouble(c, idx-numDirect-ipn, acquire)
	default:
		return t.resolveTriple(c, idx-numDirect-ipn-ipn*ipn, acquire)
	}
}

func (t *Tree) resolveDirect(c *BufContainer, idx int, acquire bool) (BlockID, error) {
	if acquire {
		if t.direct[idx].IsNull() {
			id, err := c.Acquire()
			if err != nil {
				return BlockID{}, err
			}
			t.direct[idx] = id
			t.nblocks++
		} else {
			if err := t.anomaly("direct", idx); err != nil {
				return BlockID{}, err
			}
		}
	}
	return t.direct[idx], nil
}

func (t *Tree) resolveSingle(c *BufContainer, idx int, acquire bool) (BlockID, error) {
	if t.indir.IsNull() {
		id, err := acquireNode(c)
		if err != nil {
			return BlockID{}, err
		}
		t.indir = id
	}

	t.cache.reset()
	slot := &t.cache.slots[0]
	if err := slot.refresh(c, t.indir); err != nil {
		return BlockID{}, err
	}

	if acquire {
		allocated, err := slot.acquire(c, idx)
		if err != nil {
			return BlockID{}, err
		}
		if allocated {
			t.nblocks++
		} else if err := t.anomaly("single-indirect", idx); err != nil {
			return BlockID{}, err
		}
	}

	return slot.get(idx), nil
}

func (t *Tree) resolveDouble(c *BufContainer, idx int, acquire bool) (BlockID, error) {
	ipn := idsPerNode(c)
	j0 := (idx / ipn) % ipn
	j1 := idx % ipn

	if t.dindir.IsNull() {
		id, err := acquireNode(c)
		if err != nil {
			return BlockID{}, err
		}
		t.dindir = id
	}

	t.cache.reset()
	l0 := &t.cache.slots[0]
	if err := l0.refresh(c, t.dindir); err != nil {
		return BlockID{}, err
	}

	if acquire {
		// interior allocation never bumps nblocks.
		if _, err := l0.acquire(c, j0); err != nil {
			return BlockID{}, err
		}
	} else if l0.get(j0).IsNull() {
		return BlockID{}, nil
	}

	l1 := &t.cache.slots[1]
	if err := l1.refresh(c, l0.get(j0)); err != nil {
		return BlockID{}, err
	}

	if acquire {
		allocated, err := l1.acquire(c, j1)
		if err != nil {
			return BlockID{}, err
		}
		if allocated {
			t.nblocks++
		} else if err := t.anomaly("double-indirect", idx); err != nil {
			return BlockID{}, err
		}
	}

	return l1.get(j1), nil
}

func (t *Tree) resolveTriple(c *BufContainer, idx int, acquire bool) (BlockID, error) {
	ipn := idsPerNode(c)
	j0 := (idx / (ipn * ipn)) % ipn
	j1 := (idx / ipn) % ipn
	j2 := idx % ipn

	if t.tindir.IsNull() {
		id, err := acquireNode(c)
		if err != nil {
			return BlockID{}, err
		}
		t.tindir = id
	}

	t.cache.reset()
	l0 := &t.cache.slots[0]
	if err := l0.refresh(c, t.tindir); err != nil {
		return BlockID{}, err
	}

	if acquire {
		if _, err := l0.acquire(c, j0); err != nil {
			return BlockID{}, err
		}
	} else if l0.get(j0).IsNull() {
		return BlockID{}, nil
	}

	l1 := &t.cache.slots[1]
	if err := l1.refresh(c, l0.get(j0)); err != nil {
		return BlockID{}, err
	}

	if acquire {
		if _, err := l1.acquire(c, j1); err != nil {
			return BlockID{}, err
		}
	} else if l1.get(j1).IsNull() {
		return BlockID{}, nil
	}

	l2 := &t.cache.slots[2]
	if err := l2.refresh(c, l1.get(j1)); err != nil {
		return BlockID{}, err
	}

	if acquire {
		allocated, err := l2.acquire(c, j2)
		if err != nil {
			return BlockID{}, err
		}
		if allocated {
			t.nblocks++
		} else if err := t.anomaly("triple-indirect", idx); err != nil {
			return BlockID{}, err
		}
	}

	return l2.get(j2), nil
}

// anomaly handles an Acquire call landing on an already-non-null leaf: spec.md §9
// recommends strict handling for new implementations, so this returns ErrCorrupt after
// logging. The logging mirrors the teacher's own warn-level log.Printf diagnostics.
func (t *Tree) anomaly(class string, idx int) error {
	log.Printf("[blockarc] warn: acquire landed on already-assigned %s slot at offset %d (nblocks=%d)", class, idx, t.nblocks)
	return ErrCorrupt
}

// EncodedSize returns the number of bytes Tree.Encode writes: 12 ids, 3 ids, 8 bytes.
func (t *Tree) EncodedSize(idSize int) int {
	return (numDirect+3)*idSize + 8
}

// Encode serializes the tree's persisted fields (direct, indirect, d_indirect, t_indirect,
// nblocks) into cur, per spec.md §6. The node cache is transient and is never persisted.
func (t *Tree) Encode(cur *Cursor, idSize int) error {
	for _, id := range t.direct {
		if err := cur.PutBytes(id[:idSize]); err != nil {
			return err
		}
	}
	for _, id := range [3]BlockID{t.indir, t.dindir, t.tindir} {
		if err := cur.PutBytes(id[:idSize]); err != nil {
			return err
		}
	}
	return cur.PutUint64(t.nblocks)
}

// DecodeTree deserializes a tree previously written by Encode.
func DecodeTree(cur *Cursor, idSize int) (*Tree, error) {
	t := NewTree()
	for i := range t.direct {
		b, err := cur.Bytes(idSize)
		if err != nil {
			return nil, err
		}
		copy(t.direct[i][:], b)
	}
	for _, slot := range []*BlockID{&t.indir, &t.dindir, &t.tindir} {
		b, err := cur.Bytes(idSize)
		if err != nil {
			return nil, err
		}
		copy(slot[:], b)
	}
	n, err := cur.Uint64()
	if err != nil {
		return nil, err
	}
	t.nblocks = n
	return t, nil
}
