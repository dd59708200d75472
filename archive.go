package blockarc

import "io/fs"

// headerBlockID is the logical backend id reserved for the archive header. Every concrete
// Backend shipped with this module (MemBackend, FileBackend) numbers its blocks densely
// from zero and hands out idFromUint64(0) first, so reserving the very first id acquired
// at Create time for the header is equivalent to reserving a fixed, well-known id, per
// spec.md §1/§6.
func headerBlockID() BlockID {
	return idFromUint64(0)
}

// Archive is the façade over a backend: it anchors the header block, owns the block-index
// tree, and hands out entry enumeration and builders. Per spec.md §5, an Archive and
// everything reachable through it (container, tree, header) form one exclusively-owned
// aggregate; no method may be re-entered while another is in progress.
type Archive struct {
	backend   Backend
	container *BufContainer
	headerID  BlockID
	header    *header
	closed    bool
}

// Create initializes a new, empty archive on backend: an empty tree and a zeroed header
// are flushed to the header block. If overwrite is false and backend already holds a
// valid header at the reserved header id, Create does not clobber it: it returns that
// existing archive, as Open would, with a nil error.
func Create(backend Backend, overwrite bool) (*Archive, error) {
	container := NewBufContainer(backend)
	id := headerBlockID()

	if !overwrite {
		if existing, err := loadHeader(container, id); err == nil && existing.magic == headerMagic {
			return &Archive{backend: backend, container: container, headerID: id, header: existing}, nil
		}
	}

	h := newHeader()

	// Reserve the header's own id before the tree starts allocating, so the backend's
	// sequential numbering lands the header at the well-known id above.
	reserved, err := container.Acquire()
	if err != nil {
		return nil, err
	}
	if reserved != id {
		return nil, ErrCorrupt
	}

	if err := flushHeader(container, id, h); err != nil {
		return nil, err
	}

	return &Archive{backend: backend, container: container, headerID: id, header: h}, nil
}

// Open reads the header block from backend and returns the archive it describes.
func Open(backend Backend) (*Archive, error) {
	container := NewBufContainer(backend)
	id := headerBlockID()

	h, err := loadHeader(container, id)
	if err != nil {
		return nil, err
	}

	return &Archive{backend: backend, container: container, headerID: id, header: h}, nil
}

// Close releases any resources held by the underlying backend (e.g. FileBackend's file
// descriptor and advisory lock). After Close, the Archive must not be used.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if c, ok := a.backend.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// FileCount returns the number of entries the header records.
func (a *Archive) FileCount() uint64 {
	return a.header.files
}

// Backend returns the backend this archive is built on, for diagnostics or CLI use.
func (a *Archive) Backend() Backend {
	return a.backend
}

// Append returns a builder for a new file entry named name with the given permission
// bits. Call Build to create it and obtain an EntryMut to write content to.
func (a *Archive) Append(name string, perm fs.FileMode) *EntryBuilder {
	return newEntryBuilder(a.container, a.headerID, a.header, a.header.tree, name, NewFileMode(perm))
}

// AppendDirectory returns a builder for a new, content-less directory entry.
func (a *Archive) AppendDirectory(name string, perm fs.FileMode) *EntryBuilder {
	return newEntryBuilder(a.container, a.headerID, a.header, a.header.tree, name, NewDirectoryMode(perm))
}

// AppendSymlink creates a new symlink entry named name pointing at target. Unlike regular
// entries, the whole target is written in one WriteAll call as the symlink's content.
func (a *Archive) AppendSymlink(name, target string) (*SymlinkEntry, error) {
	b := newEntryBuilder(a.container, a.headerID, a.header, a.header.tree, name, NewSymlinkMode())
	mut, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := mut.WriteAll([]byte(target)); err != nil {
		return nil, err
	}

	entry, ok, err := loadEntryAt(a.container, a.header.tree, mut.entryIdx())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCorrupt
	}
	sl, ok := entry.(*SymlinkEntry)
	if !ok {
		return nil, ErrInvalidType
	}
	return sl, nil
}

// First returns the first entry of the archive, or ok=false if the archive has no
// entries.
func (a *Archive) First() (Entry, bool, error) {
	return FirstEntry(a.container, a.header.tree)
}

// FS returns a read-only fs.FS view over the archive's flat entry sequence, per
// SPEC_FULL.md §4.10.
func (a *Archive) FS() fs.FS {
	return &archiveFS{archive: a}
}
