package blockarc

// headerMagic identifies a blockarc archive; headerVersion is the on-disk format version.
const (
	headerMagic   uint32 = 0x41524342 // "ARCB" big-endian
	headerVersion uint32 = 1
)

// header is the archive-level anchor record: magic, version, file count and the block-
// index tree, stored at a single well-known block id per spec.md §3/§6. It is rewritten
// to that id whenever the tree or file count changes.
type header struct {
	magic   uint32
	version uint32
	files   uint64
	tree    *Tree
}

func newHeader() *header {
	return &header{magic: headerMagic, version: headerVersion, tree: NewTree()}
}

func (h *header) incFiles() {
	h.files++
}

// flushHeader serializes h (magic, version, file count, tree) to id, zero-padded to block
// size, per spec.md §6.
func flushHeader(c *BufContainer, id BlockID, h *header) error {
	cur := c.NewWriter()
	if err := cur.PutUint32(h.magic); err != nil {
		return err
	}
	if err := cur.PutUint32(h.version); err != nil {
		return err
	}
	if err := cur.PutUint64(h.files); err != nil {
		return err
	}
	if err := h.tree.Encode(cur, c.IDSize()); err != nil {
		return err
	}
	return c.FlushWriter(id)
}

// loadHeader reads and decodes the header stored at id.
func loadHeader(c *BufContainer, id BlockID) (*header, error) {
	cur, err := c.NewReader(id)
	if err != nil {
		return nil, err
	}
	magic, err := cur.Uint32()
	if err != nil {
		return nil, err
	}
	if magic != headerMagic {
		return nil, ErrCorrupt
	}
	version, err := cur.Uint32()
	if err != nil {
		return nil, err
	}
	files, err := cur.Uint64()
	if err != nil {
		return nil, err
	}
	tree, err := DecodeTree(cur, c.IDSize())
	if err != nil {
		return nil, err
	}
	return &header{magic: magic, version: version, files: files, tree: tree}, nil
}
