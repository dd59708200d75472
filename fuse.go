//go:build fuse

package blockarc

import (
	"context"
	"log"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// fuseRoot is the synthetic root directory of a mounted archive, populated once at mount
// time from the entry sequence (spec.md §3: entries form a flat sequence, not a tree), per
// the same flat-namespace model as archiveFS in fsadapter.go.
type fuseRoot struct {
	fs.Inode
	archive *Archive
}

var _ fs.NodeOnAdder = (*fuseRoot)(nil)
var _ fs.NodeGetattrer = (*fuseRoot)(nil)

// OnAdd walks the archive once and attaches every entry as a persistent child inode,
// mirroring the teacher's ReadDir loop in inode_fuse.go (dir enumeration via sb.dirReader)
// adapted to this archive's flat, non-hierarchical namespace.
func (r *fuseRoot) OnAdd(ctx context.Context) {
	entry, ok, err := r.archive.First()
	if err != nil {
		log.Printf("[blockarc] fuse: failed to enumerate entries: %v", err)
		return
	}
	for ok {
		mode := uint32(syscall.S_IFREG)
		switch entry.Kind() {
		case KindDirectory:
			mode = syscall.S_IFDIR
		case KindSymlink:
			mode = syscall.S_IFLNK
		}
		child := &fuseNode{entry: entry}
		inode := r.NewPersistentInode(ctx, child, fs.StableAttr{Mode: mode})
		r.AddChild(entry.Name(), inode, true)

		entry, ok, err = entry.Next()
		if err != nil {
			log.Printf("[blockarc] fuse: entry enumeration stopped early: %v", err)
			return
		}
	}
}

func (r *fuseRoot) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFDIR | 0755
	return 0
}

// fuseNode wraps a single archive Entry as a FUSE inode. Files, directories and symlinks
// all share this type; behavior is dispatched on the wrapped Entry's concrete kind, the
// same tagged-interface style entryreader.go uses instead of an inheritance hierarchy.
type fuseNode struct {
	fs.Inode
	entry Entry
}

var _ fs.NodeGetattrer = (*fuseNode)(nil)
var _ fs.NodeOpener = (*fuseNode)(nil)
var _ fs.NodeReader = (*fuseNode)(nil)
var _ fs.NodeReadlinker = (*fuseNode)(nil)

func (n *fuseNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	fillAttr(n.entry, &out.Attr)
	return 0
}

// Open rejects non-file opens for read (directories are traversed via Lookup/OnAdd,
// symlinks via Readlink) and otherwise eagerly buffers the full content: the archive's
// content-block reader (FileEntry.Read) is forward-only, so a random-access FUSE file
// handle needs the data materialized up front rather than re-derived per offset.
func (n *fuseNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	fe, ok := n.entry.(*FileEntry)
	if !ok {
		return nil, 0, syscall.EINVAL
	}
	data, err := fe.ReadVec()
	if err != nil {
		log.Printf("[blockarc] fuse: read %q failed: %v", fe.Name(), err)
		return nil, 0, syscall.EIO
	}
	return &fuseFileHandle{data: data}, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *fuseNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	fh, ok := f.(*fuseFileHandle)
	if !ok {
		return nil, syscall.EINVAL
	}
	if off < 0 || off >= int64(len(fh.data)) {
		return fuse.ReadResultData(nil), 0
	}
	end := off + int64(len(dest))
	if end > int64(len(fh.data)) {
		end = int64(len(fh.data))
	}
	return fuse.ReadResultData(fh.data[off:end]), 0
}

func (n *fuseNode) Readlink(ctx context.Context) ([]byte, syscall.Errno) {
	se, ok := n.entry.(*SymlinkEntry)
	if !ok {
		return nil, syscall.EINVAL
	}
	return []byte(se.Target()), 0
}

// fuseFileHandle holds one Open call's fully-buffered content.
type fuseFileHandle struct {
	data []byte
}

// fuseBlockSizeHint is reported to the kernel as a stat(2) block size hint. It is not tied
// to any particular backend's actual block size, which a mounted archive's entries don't
// expose through the Entry interface.
const fuseBlockSizeHint = 4096

// Mount attaches archive read-only at mountpoint and blocks until unmounted, following the
// single top-level entry point consumers of the teacher's inode/fuse glue were expected to
// assemble for themselves.
func Mount(archive *Archive, mountpoint string) error {
	root := &fuseRoot{archive: archive}
	server, err := fs.Mount(mountpoint, root, &fs.Options{
		MountOptions: fuse.MountOptions{
			FsName:     "blockarc",
			Name:       "blockarc",
			Debug:      false,
			AllowOther: false,
		},
	})
	if err != nil {
		return err
	}
	server.Wait()
	return nil
}
