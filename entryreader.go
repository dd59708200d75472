package blockarc

import (
	"log"
	"strings"
)

// Entry is an entry of the archive, one of FileEntry, DirectoryEntry or SymlinkEntry.
// Use a type switch (or the Kind method) to access variant-specific behavior, per the
// tagged-enum approach spec.md §9 recommends over inheritance.
type Entry interface {
	Name() string
	Size() uint64
	Mode() Mode
	Kind() Kind

	// Next returns the entry immediately following this one in archive order, or
	// ok=false if this was the last entry.
	Next() (entry Entry, ok bool, err error)
}

// entryBase holds the state shared by all three entry variants: the pager and tree it
// reads through, its decoded metadata, and idx, the logical block index of its own
// metadata block (used to compute where its content and the next entry's metadata begin).
type entryBase struct {
	container *BufContainer
	tree      *Tree
	meta      EntryMeta
	idx       int
}

func (e *entryBase) Name() string { return e.meta.Name }
func (e *entryBase) Size() uint64 { return e.meta.Size }
func (e *entryBase) Mode() Mode   { return e.meta.Mode }
func (e *entryBase) Kind() Kind   { return e.meta.Mode.Kind() }

// contentBlocks returns ceil(size / blockSize), the number of content blocks following
// this entry's metadata block.
func (e *entryBase) contentBlocks() int {
	blockSize := uint64(e.container.BlockSize())
	if e.meta.Size%blockSize == 0 {
		return int(e.meta.Size / blockSize)
	}
	return int(e.meta.Size/blockSize) + 1
}

// nextIdx computes the logical block index of the following entry's metadata block, per
// spec.md §4.7: start(i) + 1 + ceil(size(i)/block_size).
func (e *entryBase) nextIdx() int {
	return e.idx + e.contentBlocks() + 1
}

func (e *entryBase) next() (Entry, bool, error) {
	return loadEntryAt(e.container, e.tree, e.nextIdx())
}

// FirstEntry returns the first entry of the archive, or ok=false if the archive is empty.
func FirstEntry(c *BufContainer, t *Tree) (Entry, bool, error) {
	return loadEntryAt(c, t, 0)
}

// loadEntryAt looks up the metadata block at logical index idx and, if present, loads and
// classifies the entry stored there.
func loadEntryAt(c *BufContainer, t *Tree, idx int) (Entry, bool, error) {
	id, ok, err := t.Lookup(c, idx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	meta, err := loadEntryMeta(c, id)
	if err != nil {
		return nil, false, err
	}

	base := entryBase{container: c, tree: t, meta: *meta, idx: idx}
	return classify(base)
}

// classify builds the concrete Entry variant matching base.meta.Mode.Kind(), per spec.md
// §4.7. An unrecognized kind fails with ErrInvalidType.
func classify(base entryBase) (Entry, bool, error) {
	switch base.meta.Mode.Kind() {
	case KindFile:
		return &FileEntry{entryBase: base}, true, nil
	case KindDirectory:
		return &DirectoryEntry{entryBase: base}, true, nil
	case KindSymlink:
		sl := &SymlinkEntry{entryBase: base}
		target, err := sl.readTarget()
		if err != nil {
			return nil, false, err
		}
		sl.target = target
		return sl, true, nil
	default:
		return nil, false, ErrInvalidType
	}
}

// FileEntry is a read-capable file entry.
type FileEntry struct {
	entryBase
	rcache []byte
	ridx   int
}

func (f *FileEntry) Next() (Entry, bool, error) { return f.next() }

// Read reads up to len(buf) bytes of content into buf, returning the number of bytes
// actually read, per spec.md §4.6. It returns 0 (not an error) once all content has been
// read, and also degrades to 0 with a warn-level log if the archive's actual block layout
// ends before the declared size says it should (premature end of archive).
func (f *FileEntry) Read(buf []byte) (int, error) {
	if len(f.rcache) == 0 {
		blocks := f.contentBlocks()
		if f.ridx >= blocks {
			return 0, nil
		}

		blockSize := int(f.container.BlockSize())
		remaining := int(f.meta.Size) - f.ridx*blockSize
		cacheSize := remaining
		if cacheSize > blockSize {
			cacheSize = blockSize
		}

		idx := f.idx + f.ridx + 1
		id, ok, err := f.tree.Lookup(f.container, idx)
		if err != nil {
			return 0, err
		}
		if !ok {
			log.Printf("[blockarc] warn: premature end of archive, no block at logical index %d", idx)
			return 0, nil
		}

		block := make([]byte, f.container.BlockSize())
		if _, err := f.container.Read(id, block); err != nil {
			return 0, err
		}
		f.rcache = block[:cacheSize]
		f.ridx++
	}

	n := copy(buf, f.rcache)
	f.rcache = f.rcache[n:]
	return n, nil
}

// ReadAll reads exactly len(buf) bytes, failing with ErrUnexpectedEOF if content ends
// first.
func (f *FileEntry) ReadAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := f.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUnexpectedEOF
		}
		buf = buf[n:]
	}
	return nil
}

// ReadVec reads and returns the entry's entire content, a buffer of exactly Size() bytes.
func (f *FileEntry) ReadVec() ([]byte, error) {
	buf := make([]byte, f.meta.Size)
	if err := f.ReadAll(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// DirectoryEntry is a metadata-only directory entry.
type DirectoryEntry struct {
	entryBase
}

func (d *DirectoryEntry) Next() (Entry, bool, error) { return d.next() }

// SymlinkEntry is a symlink entry; its target is read eagerly during classification.
type SymlinkEntry struct {
	entryBase
	target string
}

func (s *SymlinkEntry) Next() (Entry, bool, error) { return s.next() }

// Target returns the path this symlink points to.
func (s *SymlinkEntry) Target() string { return s.target }

// readTarget reads the symlink's content (its target path) in one shot, since Size is
// already known and durable by classification time. See SPEC_FULL.md §4.6 for why this
// module prefers this over the chunked-growth approach the documented source uses.
func (s *SymlinkEntry) readTarget() (string, error) {
	f := &FileEntry{entryBase: s.entryBase}
	buf, err := f.ReadVec()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// readSymlinkTargetChunked reconstructs a symlink's target the way the documented source
// does: growing a buffer 64 bytes at a time and stopping at the first zero-byte read,
// then lossily decoding the result as UTF-8. Kept for parity as an alternate path that no
// test exercises; the default path is readTarget above.
func readSymlinkTargetChunked(base entryBase) (string, error) {
	const chunk = 64
	f := &FileEntry{entryBase: base}

	var buf []byte
	nbytes := 0

	for {
		buf = append(buf, make([]byte, chunk)...)
		n, err := f.Read(buf[nbytes : nbytes+chunk])
		if err != nil {
			return "", err
		}
		nbytes += n
		buf = buf[:nbytes]
		if n == 0 {
			break
		}
	}

	return strings.ToValidUTF8(string(buf), "�"), nil
}
