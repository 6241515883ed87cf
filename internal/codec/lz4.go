package codec

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/jittakal/adzip/pkg/codec"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse. The
// lz4.Compressor maintains an internal hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec is a byte-oriented LZ4 block codec, used for large binary
// payloads where throughput matters more than ratio.
type LZ4Codec struct{}

var _ codec.Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates an LZ4 block codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input as a single LZ4 block. The destination
// buffer is sized with the codec's worst-case bound and truncated to the
// encoded length. An incompressible input yields an empty slice; the
// caller is expected to fall back to storing the payload unmodified.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses a single LZ4 block. The original length is not
// carried inside the block, so the buffer starts at 4x the compressed
// size and doubles on ErrInvalidSourceShortBuffer up to a 128 MiB cap.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}
			return nil, err
		}
		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
