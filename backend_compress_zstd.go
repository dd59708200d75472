//go:build zstd

package blockarc

import (
	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
	zstdEncoder = enc
	zstdDecoder = dec

	registeredCompress = zstdCompress
	registeredDecompress = zstdDecompress
}

func zstdCompress(buf []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(buf, nil), nil
}

func zstdDecompress(buf []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(buf, nil)
}
