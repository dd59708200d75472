package blockarc

// idsPerNode returns ipn, the fanout of one IndexNode: how many ids fit in one block.
func idsPerNode(c *BufContainer) int {
	return int(c.BlockSize()) / c.IDSize()
}

// indexNode is the decoded content of one IndexNode block: an array of ipn ids, unused
// slots holding the null id. Encoding packs ids contiguously at c.IDSize() bytes each and
// zero-pads any remainder, per spec.md §6.
type indexNode struct {
	ids []BlockID
}

// newIndexNode allocates a zero-filled (all-null) node sized for c's fanout.
func newIndexNode(c *BufContainer) *indexNode {
	return &indexNode{ids: make([]BlockID, idsPerNode(c))}
}

// acquireNode asks the backend for a fresh block to hold a node, and writes a zeroed node
// to it immediately so the block reads back as all-null ids before any slot is assigned.
func acquireNode(c *BufContainer) (BlockID, error) {
	id, err := c.Acquire()
	if err != nil {
		return BlockID{}, err
	}
	if err := flushIndexNode(c, id, newIndexNode(c)); err != nil {
		return BlockID{}, err
	}
	return id, nil
}

// loadIndexNode reads and decodes the node stored at id.
func loadIndexNode(c *BufContainer, id BlockID) (*indexNode, error) {
	cur, err := c.NewReader(id)
	if err != nil {
		return nil, err
	}
	n := newIndexNode(c)
	idSize := c.IDSize()
	for i := range n.ids {
		b, err := cur.Bytes(idSize)
		if err != nil {
			return nil, err
		}
		copy(n.ids[i][:], b)
	}
	return n, nil
}

// flushIndexNode encodes n and writes it to id.
func flushIndexNode(c *BufContainer, id BlockID, n *indexNode) error {
	cur := c.NewWriter()
	idSize := c.IDSize()
	for _, bid := range n.ids {
		if err := cur.PutBytes(bid[:idSize]); err != nil {
			return err
		}
	}
	return c.FlushWriter(id)
}
