package codec

import (
	"github.com/golang/snappy"

	"github.com/jittakal/adzip/pkg/codec"
)

// SnappyCodec is a Snappy block codec, an alternative fast binary codec.
type SnappyCodec struct{}

var _ codec.Codec = (*SnappyCodec)(nil)

// NewSnappyCodec creates a Snappy codec.
func NewSnappyCodec() SnappyCodec {
	return SnappyCodec{}
}

// Compress compresses the input using Snappy block encoding.
func (c SnappyCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy block data.
func (c SnappyCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return snappy.Decode(nil, data)
}
