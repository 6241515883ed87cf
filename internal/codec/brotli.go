package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/jittakal/adzip/pkg/codec"
)

// BrotliCodec is a Brotli codec, an alternative strong codec.
type BrotliCodec struct {
	quality int
}

var _ codec.Codec = (*BrotliCodec)(nil)

// NewBrotliCodec creates a Brotli codec at default quality.
func NewBrotliCodec() BrotliCodec {
	return BrotliCodec{quality: brotli.DefaultCompression}
}

// Compress compresses the input into a Brotli stream.
func (c BrotliCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	bw := brotli.NewWriterLevel(&buf, c.quality)
	if _, err := bw.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("finalize brotli stream: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress decompresses a Brotli stream.
func (c BrotliCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}
	return out, nil
}
