package blockarc

import "fmt"

// MemBackend is an in-memory Backend, useful for tests the way the teacher's mockReader
// (mock_test.go) stands in for a real image. Block numbers are a dense uint64 sequence
// starting at zero (encoded by idFromUint64), matching the convention Archive relies on
// for locating the header block.
type MemBackend struct {
	blockSize uint32
	idSize    int
	blocks    map[BlockID][]byte
	next      uint64
}

// NewMemBackend returns a MemBackend with the given block size. idSize defaults to 8
// (enough for any practical archive) when it is outside 1..8. The tree fanout is
// ipn = blockSize/idSize, so a small block size gives the small address spaces of
// spec.md §8's small-ipn scenarios, and a smaller idSize makes ipn larger.
func NewMemBackend(blockSize uint32, idSize int) *MemBackend {
	if idSize <= 0 || idSize > 8 {
		idSize = 8
	}
	return &MemBackend{
		blockSize: blockSize,
		idSize:    idSize,
		blocks:    make(map[BlockID][]byte),
	}
}

func (m *MemBackend) BlockSize() uint32 { return m.blockSize }
func (m *MemBackend) IDSize() int       { return m.idSize }
func (m *MemBackend) NullID() BlockID   { return BlockID{} }

func (m *MemBackend) Acquire() (BlockID, error) {
	id := idFromUint64(m.next)
	m.next++
	m.blocks[id] = make([]byte, m.blockSize)
	return id, nil
}

func (m *MemBackend) ReadBlock(id BlockID, out []byte) (int, error) {
	data, ok := m.blocks[id]
	if !ok {
		return 0, fmt.Errorf("blockarc: membackend: no such block %s", id)
	}
	return copy(out, data), nil
}

func (m *MemBackend) WriteBlock(id BlockID, in []byte) (int, error) {
	data, ok := m.blocks[id]
	if !ok {
		return 0, fmt.Errorf("blockarc: membackend: no such block %s", id)
	}
	return copy(data, in[:len(data)]), nil
}
