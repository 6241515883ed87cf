package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/jittakal/adzip/pkg/codec"
)

// Deflate compression levels. The archiver only uses the two extremes:
// fastest for small files, best for large text-like files.
const (
	DeflateFastest = flate.BestSpeed
	DeflateBest    = flate.BestCompression
)

// DeflateCodec is a general-purpose DEFLATE codec. The output is a raw,
// self-contained DEFLATE stream with no external dictionary.
type DeflateCodec struct {
	level int
}

var _ codec.Codec = (*DeflateCodec)(nil)

// NewDeflateCodec creates a DEFLATE codec at the given level.
func NewDeflateCodec(level int) DeflateCodec {
	return DeflateCodec{level: level}
}

// Compress compresses the input into a raw DEFLATE stream.
func (c DeflateCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(data) / 2)

	fw, err := flate.NewWriter(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("create deflate writer: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("finalize deflate stream: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a raw DEFLATE stream.
func (c DeflateCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()

	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}
	return out, nil
}
