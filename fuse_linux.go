//go:build linux && fuse

package blockarc

import "github.com/hanwen/go-fuse/v2/fuse"

// fillAttr fills attr from entry, per the teacher's per-OS split (inode_linux.go vs
// inode_darwin.go): Linux additionally reports a block size hint.
func fillAttr(entry Entry, attr *fuse.Attr) {
	attr.Size = entry.Size()
	attr.Mode = ModeToUnix(entry.Mode().FileMode())
	attr.Nlink = 1
	attr.Blksize = fuseBlockSizeHint
	attr.Blocks = (entry.Size() + uint64(fuseBlockSizeHint) - 1) / uint64(fuseBlockSizeHint)
}
