//go:build xz || zstd

package blockarc

import "encoding/binary"

// compressFunc/decompressFunc are registered by the build-tag-gated codec files
// (backend_compress_xz.go, backend_compress_zstd.go), following the teacher's own
// comp_xz.go/comp_zstd.go registration pattern.
type compressFunc func([]byte) ([]byte, error)
type decompressFunc func([]byte) ([]byte, error)

var (
	registeredCompress   compressFunc
	registeredDecompress decompressFunc
)

// uncompressedFlag is set in the top bit of the stored length prefix when a block's
// payload didn't compress smaller than the raw data (or didn't fit even compressed),
// mirroring the top-bit-flagged length prefix the teacher's tablereader.go/inodereader.go
// use for their own compressed metadata tables.
const uncompressedFlag = 0x8000

// CompressedBackend decorates another Backend, compressing each block's payload before
// storing it and decompressing on read. The compressed (or raw, if compression didn't
// help) payload is stored with a 2-byte length prefix inside the same fixed-size block the
// decorated backend already provides — this backend never needs blocks bigger than the
// one it wraps, it only ever uses less of each one.
//
// This is additive, optional domain-stack scaffolding (SPEC_FULL.md §4.9): spec.md §1
// explicitly delegates compression to the backend and treats it as out of scope for the
// archive's core, so CompressedBackend lives entirely behind build tags and nothing in
// §3/§4/§8's invariants depends on it.
type CompressedBackend struct {
	inner Backend
}

// NewCompressedBackend wraps inner. Panics if no compressor was registered, i.e. this
// binary wasn't built with -tags xz or -tags zstd.
func NewCompressedBackend(inner Backend) *CompressedBackend {
	if registeredCompress == nil || registeredDecompress == nil {
		panic("blockarc: CompressedBackend requires building with -tags xz or -tags zstd")
	}
	return &CompressedBackend{inner: inner}
}

// BlockSize returns the inner backend's block size minus the 2-byte length/flag prefix
// every stored block carries, so a caller writing a full BlockSize()-sized payload always
// fits even when it doesn't compress at all.
func (c *CompressedBackend) BlockSize() uint32 { return c.inner.BlockSize() - 2 }
func (c *CompressedBackend) IDSize() int       { return c.inner.IDSize() }
func (c *CompressedBackend) NullID() BlockID   { return c.inner.NullID() }

func (c *CompressedBackend) Acquire() (BlockID, error) { return c.inner.Acquire() }

func (c *CompressedBackend) WriteBlock(id BlockID, in []byte) (int, error) {
	payloadSize := int(c.BlockSize())
	payload := in[:payloadSize]
	innerSize := int(c.inner.BlockSize())

	compressed, err := registeredCompress(payload)
	useCompressed := err == nil && len(compressed)+2 <= innerSize && len(compressed) < payloadSize

	stored := make([]byte, innerSize)
	if useCompressed {
		binary.LittleEndian.PutUint16(stored, uint16(len(compressed)))
		copy(stored[2:], compressed)
	} else {
		binary.LittleEndian.PutUint16(stored, uint16(len(payload))|uncompressedFlag)
		copy(stored[2:], payload)
	}

	if _, err := c.inner.WriteBlock(id, stored); err != nil {
		return 0, err
	}
	return len(in), nil
}

func (c *CompressedBackend) ReadBlock(id BlockID, out []byte) (int, error) {
	innerSize := int(c.inner.BlockSize())
	raw := make([]byte, innerSize)
	if _, err := c.inner.ReadBlock(id, raw); err != nil {
		return 0, err
	}

	lenN := binary.LittleEndian.Uint16(raw)
	noCompress := lenN&uncompressedFlag != 0
	lenN &^= uncompressedFlag

	var payload []byte
	switch {
	case lenN == 0:
		// never written since Acquire: block reads as all-zero, per the backend
		// contract (spec.md §6).
		payload = nil
	case noCompress:
		payload = raw[2 : 2+int(lenN)]
	default:
		decoded, err := registeredDecompress(raw[2 : 2+int(lenN)])
		if err != nil {
			return 0, err
		}
		payload = decoded
	}

	payloadSize := int(c.BlockSize())
	n := copy(out, payload)
	for i := n; i < len(out) && i < payloadSize; i++ {
		out[i] = 0
	}
	return payloadSize, nil
}
