package blockarc

// EntryBuilder is returned by Archive.Append and constructs a new entry at the end of the
// archive once Build is called. Grounded on the original source's EntryBuilder (§4.5).
type EntryBuilder struct {
	container *BufContainer
	headerID  BlockID
	header    *header
	tree      *Tree
	meta      EntryMeta
}

func newEntryBuilder(c *BufContainer, headerID BlockID, h *header, t *Tree, name string, mode Mode) *EntryBuilder {
	return &EntryBuilder{
		container: c,
		headerID:  headerID,
		header:    h,
		tree:      t,
		meta:      EntryMeta{Name: name, Mode: mode},
	}
}

// Build creates the new entry at the end of the archive: acquires one metadata block,
// serializes EntryMeta into it, increments the header's file count and rewrites the
// header. It returns an EntryMut ready to receive content via Write/WriteAll.
func (b *EntryBuilder) Build() (*EntryMut, error) {
	id, err := b.tree.Acquire(b.container)
	if err != nil {
		return nil, err
	}
	idx := int(b.tree.NBlocks()) - 1

	if err := flushEntryMeta(b.container, id, &b.meta); err != nil {
		return nil, err
	}

	b.header.incFiles()
	if err := flushHeader(b.container, b.headerID, b.header); err != nil {
		return nil, err
	}

	return newEntryMut(b.container, b.headerID, b.header, b.tree, b.meta, id, idx), nil
}

// EntryMut is a newly-built entry that content can be appended to via Write/WriteAll. It
// is the mutable counterpart of a FileEntry and implements spec.md §4.5's write
// amplification: every Write call rewrites the tail content block, the entry's metadata
// block, and the archive header, so a crash after any call leaves size, metadata and
// actually-written content in agreement.
type EntryMut struct {
	container *BufContainer
	headerID  BlockID
	header    *header
	tree      *Tree
	meta      EntryMeta
	first     BlockID
	last      BlockID
	tail      []byte
	idx       int
}

func newEntryMut(c *BufContainer, headerID BlockID, h *header, t *Tree, meta EntryMeta, id BlockID, idx int) *EntryMut {
	return &EntryMut{
		container: c,
		headerID:  headerID,
		header:    h,
		tree:      t,
		meta:      meta,
		first:     id,
		last:      id,
		idx:       idx,
	}
}

// entryIdx returns the logical block index of this entry's metadata block.
func (e *EntryMut) entryIdx() int { return e.idx }

// Name returns the entry's name.
func (e *EntryMut) Name() string { return e.meta.Name }

// Size returns the number of bytes written to the entry so far.
func (e *EntryMut) Size() uint64 { return e.meta.Size }

// Write appends some content from buf at the end of the entry. The entire buffer is not
// necessarily written in one call; Write returns the number of bytes actually written, per
// spec.md §4.5.
func (e *EntryMut) Write(buf []byte) (int, error) {
	blockSize := int(e.container.BlockSize())
	pos := int(e.meta.Size % uint64(blockSize))

	var available int
	if pos == 0 {
		id, err := e.tree.Acquire(e.container)
		if err != nil {
			return 0, err
		}
		e.last = id
		e.tail = make([]byte, blockSize)
		available = blockSize
	} else {
		available = blockSize - pos
	}

	n := len(buf)
	if n > available {
		n = available
	}

	copy(e.tail[pos:pos+n], buf[:n])
	if _, err := e.container.Write(e.last, e.tail); err != nil {
		return 0, err
	}

	e.meta.Size += uint64(n)
	if err := flushEntryMeta(e.container, e.first, &e.meta); err != nil {
		return n, err
	}
	if err := flushHeader(e.container, e.headerID, e.header); err != nil {
		return n, err
	}

	return n, nil
}

// WriteAll calls Write repeatedly until buf is fully drained. A failure partway through
// leaves the entry in a valid, self-consistent state: the last successfully-reported
// count of bytes is durable, per spec.md §4.5's crash-consistency rationale.
func (e *EntryMut) WriteAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := e.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}
