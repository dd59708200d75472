package blockarc

import "encoding/binary"

// Cursor is a structured byte reader/writer over a fixed-size buffer, used to decode and
// encode the on-disk records described in spec.md §6 (header, tree, index node, entry
// metadata). Unlike encoding/binary, Cursor reports running off either end of the buffer
// as a typed error (ErrEOF / ErrNoSpace) instead of panicking or returning io.EOF, matching
// the Codec.Eof / Codec.NoSpace contract the spec requires.
//
// A Cursor does not own the underlying buffer; callers must not mutate it concurrently
// with Cursor use, and must not retain a Cursor past the next block operation on the
// BufContainer that produced it.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential decode starting at position 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the number of unread/unwritten bytes remaining in the buffer.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) need(n int) error {
	if c.Len() < n {
		return ErrEOF
	}
	return nil
}

func (c *Cursor) room(n int) error {
	if c.Len() < n {
		return ErrNoSpace
	}
	return nil
}

// Uint32 decodes a big-endian uint32, advancing the cursor.
func (c *Cursor) Uint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// Uint64 decodes a big-endian uint64, advancing the cursor.
func (c *Cursor) Uint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// Byte decodes a single byte, advancing the cursor.
func (c *Cursor) Byte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// Bytes decodes n raw bytes, advancing the cursor. The returned slice aliases the
// cursor's backing buffer and must be copied by the caller if retained.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// String decodes a length-prefixed (uint32) UTF-8 string, advancing the cursor.
func (c *Cursor) String() (string, error) {
	n, err := c.Uint32()
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PutUint32 encodes v as big-endian, advancing the cursor.
func (c *Cursor) PutUint32(v uint32) error {
	if err := c.room(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(c.buf[c.pos:], v)
	c.pos += 4
	return nil
}

// PutUint64 encodes v as big-endian, advancing the cursor.
func (c *Cursor) PutUint64(v uint64) error {
	if err := c.room(8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(c.buf[c.pos:], v)
	c.pos += 8
	return nil
}

// PutByte encodes a single byte, advancing the cursor.
func (c *Cursor) PutByte(v byte) error {
	if err := c.room(1); err != nil {
		return err
	}
	c.buf[c.pos] = v
	c.pos++
	return nil
}

// PutBytes copies b into the buffer verbatim, advancing the cursor.
func (c *Cursor) PutBytes(b []byte) error {
	if err := c.room(len(b)); err != nil {
		return err
	}
	copy(c.buf[c.pos:], b)
	c.pos += len(b)
	return nil
}

// PutString encodes s as a length-prefixed (uint32) UTF-8 string, advancing the cursor.
func (c *Cursor) PutString(s string) error {
	if err := c.room(4 + len(s)); err != nil {
		return err
	}
	if err := c.PutUint32(uint32(len(s))); err != nil {
		return err
	}
	return c.PutBytes([]byte(s))
}
