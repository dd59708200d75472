//go:build darwin && fuse

package blockarc

import "github.com/hanwen/go-fuse/v2/fuse"

// fillAttr fills attr from entry. Darwin's attr struct has no Blksize field, matching the
// teacher's inode_darwin.go, which is a strict subset of inode_linux.go's FillAttr.
func fillAttr(entry Entry, attr *fuse.Attr) {
	attr.Size = entry.Size()
	attr.Mode = ModeToUnix(entry.Mode().FileMode())
	attr.Nlink = 1
	attr.Blocks = (entry.Size() + uint64(fuseBlockSizeHint) - 1) / uint64(fuseBlockSizeHint)
}
