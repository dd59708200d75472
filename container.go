package blockarc

// BufContainer wraps a Backend with a single reusable scratch buffer sized to one block,
// and layers the structured Cursor codec on top of it. It is the "pager" of spec.md's
// glossary: every other component that needs to read or write a block goes through it.
//
// BufContainer is not safe for concurrent use; per spec.md §5 the whole archive is a
// single exclusively-owned aggregate. A Cursor returned by NewReader/NewWriter must not
// be retained past the next block operation, since they alias the scratch buffer.
type BufContainer struct {
	backend Backend
	scratch []byte
}

// NewBufContainer wraps backend, allocating its scratch buffer.
func NewBufContainer(backend Backend) *BufContainer {
	return &BufContainer{
		backend: backend,
		scratch: make([]byte, backend.BlockSize()),
	}
}

// BlockSize returns the backend's block size.
func (c *BufContainer) BlockSize() uint32 {
	return c.backend.BlockSize()
}

// IDSize returns the backend's id width.
func (c *BufContainer) IDSize() int {
	return c.backend.IDSize()
}

// NullID returns the backend's null sentinel.
func (c *BufContainer) NullID() BlockID {
	return c.backend.NullID()
}

// Acquire asks the backend for a fresh block id.
func (c *BufContainer) Acquire() (BlockID, error) {
	id, err := c.backend.Acquire()
	if err != nil {
		return BlockID{}, wrapBackend("acquire", err)
	}
	return id, nil
}

// Read reads one full block from id into out, which must be at least BlockSize() bytes.
func (c *BufContainer) Read(id BlockID, out []byte) (int, error) {
	n, err := c.backend.ReadBlock(id, out)
	if err != nil {
		return n, wrapBackend("read", err)
	}
	return n, nil
}

// Write writes one full block of in to id, which must be at least BlockSize() bytes.
func (c *BufContainer) Write(id BlockID, in []byte) (int, error) {
	n, err := c.backend.WriteBlock(id, in)
	if err != nil {
		return n, wrapBackend("write", err)
	}
	return n, nil
}

// NewReader reads the block at id into the scratch buffer and returns a Cursor over it
// for structured decoding. Subsequent calls on c (Read, Write, NewWriter) invalidate the
// returned Cursor.
func (c *BufContainer) NewReader(id BlockID) (*Cursor, error) {
	if _, err := c.Read(id, c.scratch); err != nil {
		return nil, err
	}
	return NewCursor(c.scratch), nil
}

// NewWriter clears the scratch buffer to zero and returns a Cursor over it for structured
// encoding. Call FlushWriter to persist the result.
func (c *BufContainer) NewWriter() *Cursor {
	for i := range c.scratch {
		c.scratch[i] = 0
	}
	return NewCursor(c.scratch)
}

// FlushWriter writes the current scratch buffer to id. It is meant to be called after one
// or more encode calls on the Cursor returned by NewWriter.
func (c *BufContainer) FlushWriter(id BlockID) error {
	_, err := c.Write(id, c.scratch)
	return err
}

// ReadRaw exposes the scratch buffer, without copying, as the most recent NewReader or
// NewWriter call left it. Read and Write use the caller's buffer and leave it untouched.
func (c *BufContainer) ReadRaw() []byte {
	return c.scratch
}
