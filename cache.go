package blockarc

// cacheSlot holds one decoded IndexNode tied to the on-disk id it was loaded from, plus a
// dirty flag for deferred write-back. The tree keeps up to three slots (one per level of
// indirection currently being traversed); per spec.md §4.2 slot 0 always holds the level
// nearest the root of the path being walked.
type cacheSlot struct {
	id    BlockID
	valid bool // has this slot ever been refreshed? distinguishes "id is the null id" from "empty"
	node  *indexNode
	dirty bool
}

// refresh evicts-and-loads: if the slot already holds target, it's a no-op; otherwise any
// dirty contents are written back to the slot's current id first, then target is read in.
func (s *cacheSlot) refresh(c *BufContainer, target BlockID) error {
	if s.valid && s.id == target {
		return nil
	}
	if s.dirty {
		if err := flushIndexNode(c, s.id, s.node); err != nil {
			return err
		}
		s.dirty = false
	}
	n, err := loadIndexNode(c, target)
	if err != nil {
		return err
	}
	s.id = target
	s.valid = true
	s.node = n
	s.dirty = false
	return nil
}

// acquire ensures slot i of the cached node is non-null, allocating a fresh backend block
// for it if needed and flushing the slot synchronously so the new id is durable before
// being handed to the caller. It reports whether it allocated a fresh id (true) or found
// one already assigned (false) — the latter is the "already acquired" anomaly of
// spec.md §4.3/§9 when it occurs on a path the caller expected to be growing.
func (s *cacheSlot) acquire(c *BufContainer, i int) (bool, error) {
	if !s.node.ids[i].IsNull() {
		return false, nil
	}
	id, err := c.Acquire()
	if err != nil {
		return false, err
	}
	s.node.ids[i] = id
	s.dirty = true
	if err := flushIndexNode(c, s.id, s.node); err != nil {
		return false, err
	}
	s.dirty = false
	return true, nil
}

// get returns the id currently stored at slot i.
func (s *cacheSlot) get(i int) BlockID {
	return s.node.ids[i]
}

// nodeCache is the tree's transient, per-operation scratch space: up to three levels of
// decoded IndexNode, reset at the start of every top-level tree operation per spec.md
// §4.2/§4.3. It is never part of the Tree's persisted form.
type nodeCache struct {
	slots [3]cacheSlot
}

// reset invalidates all slots, forcing the next refresh of each to perform a fresh load.
func (nc *nodeCache) reset() {
	nc.slots[0] = cacheSlot{}
	nc.slots[1] = cacheSlot{}
	nc.slots[2] = cacheSlot{}
}
