package blockarc

import (
	"io"
	"io/fs"
	"time"
)

// archiveFS is a read-only fs.FS over an archive's flat entry sequence, per
// SPEC_FULL.md §4.10. The archive's data model has no directory nesting (§3: entries form
// one contiguous sequence, not a tree), so archiveFS exposes exactly two things: "." as a
// synthetic root directory listing every entry, and each entry's own Name() as a leaf.
type archiveFS struct {
	archive *Archive
}

var _ fs.FS = (*archiveFS)(nil)
var _ fs.StatFS = (*archiveFS)(nil)

func (a *archiveFS) findEntry(name string) (Entry, error) {
	entry, ok, err := a.archive.First()
	if err != nil {
		return nil, err
	}
	for ok {
		if entry.Name() == name {
			return entry, nil
		}
		entry, ok, err = entry.Next()
		if err != nil {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Open implements fs.FS. name "." returns a directory listing every entry in archive
// order; any other name is looked up against entry names directly (no path separators).
func (a *archiveFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &archiveRootFile{archive: a.archive}, nil
	}

	entry, err := a.findEntry(name)
	if err != nil {
		return nil, err
	}

	switch e := entry.(type) {
	case *FileEntry:
		return &entryFile{entry: e}, nil
	case *DirectoryEntry:
		return &entryFile{entry: e}, nil
	case *SymlinkEntry:
		return &entryFile{entry: e}, nil
	default:
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrInvalidType}
	}
}

// Stat implements fs.StatFS.
func (a *archiveFS) Stat(name string) (fs.FileInfo, error) {
	f, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

// entryInfo adapts an Entry to fs.FileInfo.
type entryInfo struct {
	entry Entry
}

func (fi entryInfo) Name() string       { return fi.entry.Name() }
func (fi entryInfo) Size() int64        { return int64(fi.entry.Size()) }
func (fi entryInfo) Mode() fs.FileMode  { return fi.entry.Mode().FileMode() }
func (fi entryInfo) ModTime() time.Time { return time.Time{} }
func (fi entryInfo) IsDir() bool        { return fi.entry.Kind() == KindDirectory }
func (fi entryInfo) Sys() any           { return fi.entry }

// entryFile adapts any Entry variant to fs.File; Read only succeeds for FileEntry.
type entryFile struct {
	entry Entry
}

func (f *entryFile) Stat() (fs.FileInfo, error) { return entryInfo{entry: f.entry}, nil }
func (f *entryFile) Close() error               { return nil }

func (f *entryFile) Read(buf []byte) (int, error) {
	fe, ok := f.entry.(*FileEntry)
	if !ok {
		return 0, &fs.PathError{Op: "read", Path: f.entry.Name(), Err: fs.ErrInvalid}
	}
	n, err := fe.Read(buf)
	if n == 0 && err == nil && len(buf) > 0 {
		return 0, io.EOF
	}
	return n, err
}

// archiveRootFile implements fs.ReadDirFile for the synthetic "." directory.
type archiveRootFile struct {
	archive *Archive
	entries []fs.DirEntry
	read    bool
}

func (r *archiveRootFile) Stat() (fs.FileInfo, error) {
	return rootInfo{}, nil
}

func (r *archiveRootFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: fs.ErrInvalid}
}

func (r *archiveRootFile) Close() error { return nil }

func (r *archiveRootFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if !r.read {
		entry, ok, err := r.archive.First()
		if err != nil {
			return nil, err
		}
		for ok {
			r.entries = append(r.entries, dirEntry{entry: entry})
			entry, ok, err = entry.Next()
			if err != nil {
				return nil, err
			}
		}
		r.read = true
	}

	if n <= 0 {
		out := r.entries
		r.entries = nil
		return out, nil
	}

	if len(r.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := r.entries[:n]
	r.entries = r.entries[n:]
	return out, nil
}

// dirEntry adapts an Entry to fs.DirEntry.
type dirEntry struct {
	entry Entry
}

func (d dirEntry) Name() string              { return d.entry.Name() }
func (d dirEntry) IsDir() bool                { return d.entry.Kind() == KindDirectory }
func (d dirEntry) Type() fs.FileMode          { return d.entry.Mode().FileMode().Type() }
func (d dirEntry) Info() (fs.FileInfo, error) { return entryInfo{entry: d.entry}, nil }

// rootInfo is the synthetic fs.FileInfo for "."
type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0755 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }
