//go:build !linux && !darwin

package blockarc

import "os"

// lockFile is a no-op on platforms without flock; the single-writer discipline of
// spec.md §5 is then enforced only by convention, not by the OS.
func lockFile(f *os.File) error { return nil }

func unlockFile(f *os.File) error { return nil }
