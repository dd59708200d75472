package blockarc

import "io/fs"

// Kind discriminates the three entry variants this archive format supports. It plays the
// role of the teacher's Type enum (type.go), reduced to the three variants spec.md names.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindDirectory
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "invalid"
	}
}

// Mode carries an entry's type and permission/flag bits, encoded as a single unix-style
// mode word (reusing ModeToUnix/UnixToMode from mode.go) so the on-disk representation is
// one uint32 rather than a separate tag-plus-bits pair.
type Mode struct {
	unix uint32
}

// NewFileMode returns a Mode for a regular file with the given permission bits.
func NewFileMode(perm fs.FileMode) Mode {
	return Mode{unix: ModeToUnix(perm.Perm())}
}

// NewDirectoryMode returns a Mode for a directory with the given permission bits.
func NewDirectoryMode(perm fs.FileMode) Mode {
	return Mode{unix: ModeToUnix(fs.ModeDir | perm.Perm())}
}

// NewSymlinkMode returns a Mode for a symlink. Symlinks carry no meaningful permission
// bits on most systems; this module always encodes 0777 for them, matching common
// archive-format convention.
func NewSymlinkMode() Mode {
	return Mode{unix: ModeToUnix(fs.ModeSymlink | 0777)}
}

// Kind reports which of the three supported variants m describes, or 0 if m's type bits
// don't match any of them (the loaded entry is then rejected with ErrInvalidType).
func (m Mode) Kind() Kind {
	fm := UnixToMode(m.unix)
	switch {
	case fm&fs.ModeSymlink != 0:
		return KindSymlink
	case fm&fs.ModeDir != 0:
		return KindDirectory
	case fm.IsRegular():
		return KindFile
	default:
		return 0
	}
}

// Perm returns the permission bits (rwxrwxrwx plus setuid/setgid/sticky) of m.
func (m Mode) Perm() fs.FileMode {
	return UnixToMode(m.unix) &^ (fs.ModeDir | fs.ModeSymlink)
}

// FileMode returns the full fs.FileMode (type bits included) described by m.
func (m Mode) FileMode() fs.FileMode {
	return UnixToMode(m.unix)
}

// EntryMeta is the per-entry record stored in an entry's metadata block: name, content
// size, and mode. Symlink targets are not part of EntryMeta; they are stored as the
// entry's content, per spec.md §3.
type EntryMeta struct {
	Name string
	Size uint64
	Mode Mode
}

// encodedSize returns the number of bytes flushEntryMeta writes for this EntryMeta.
func (m *EntryMeta) encodedSize() int {
	return 4 + 8 + 4 + len(m.Name)
}

// flushEntryMeta serializes m into container's scratch writer and flushes it to id,
// zero-padded to block size, per spec.md §4.4. Returns ErrNameTooLong if the encoded form
// doesn't fit in one block.
func flushEntryMeta(c *BufContainer, id BlockID, m *EntryMeta) error {
	if m.encodedSize() > int(c.BlockSize()) {
		return ErrNameTooLong
	}
	cur := c.NewWriter()
	if err := cur.PutUint32(m.Mode.unix); err != nil {
		return err
	}
	if err := cur.PutUint64(m.Size); err != nil {
		return err
	}
	if err := cur.PutString(m.Name); err != nil {
		return err
	}
	return c.FlushWriter(id)
}

// loadEntryMeta reads and decodes the EntryMeta stored at id.
func loadEntryMeta(c *BufContainer, id BlockID) (*EntryMeta, error) {
	cur, err := c.NewReader(id)
	if err != nil {
		return nil, err
	}
	unix, err := cur.Uint32()
	if err != nil {
		return nil, err
	}
	size, err := cur.Uint64()
	if err != nil {
		return nil, err
	}
	name, err := cur.String()
	if err != nil {
		return nil, err
	}
	return &EntryMeta{Name: name, Size: size, Mode: Mode{unix: unix}}, nil
}
