package codec

import "github.com/jittakal/adzip/pkg/codec"

// StoreCodec passes payloads through unmodified. It backs the store
// method used for already-compressed file formats, where another round
// of compression only wastes CPU.
type StoreCodec struct{}

var _ codec.Codec = (*StoreCodec)(nil)

// NewStoreCodec creates a pass-through codec.
func NewStoreCodec() StoreCodec {
	return StoreCodec{}
}

// Compress returns the input slice as-is, without copying. The caller
// must not modify the input while the returned slice is in use.
func (StoreCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying.
func (StoreCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
