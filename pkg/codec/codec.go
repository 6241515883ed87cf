// Package codec defines interfaces for per-file payload compression.
//
// A codec transforms a fully read file payload into its compressed form
// before the payload is placed into the archive container. The container
// itself never re-compresses; whatever a codec produced is stored as-is.
package codec

// Method identifies a compression method applied to a file payload.
type Method string

const (
	// MethodStore passes the payload through unmodified.
	MethodStore Method = "store"

	// MethodDeflateFast is DEFLATE at the fastest level. Used for small
	// files where latency matters more than ratio.
	MethodDeflateFast Method = "deflate-fast"

	// MethodDeflateBest is DEFLATE at the best-compression level. Used for
	// larger text-like payloads where ratio matters more than speed.
	MethodDeflateBest Method = "deflate-best"

	// MethodLZ4 is LZ4 block compression. Used for larger binary payloads
	// where speed matters more than ratio.
	MethodLZ4 Method = "lz4"

	// MethodZstd is Zstandard compression, an alternative strong codec.
	MethodZstd Method = "zstd"

	// MethodS2 is S2 block compression, an alternative fast binary codec.
	MethodS2 Method = "s2"

	// MethodSnappy is Snappy block compression, an alternative fast
	// binary codec.
	MethodSnappy Method = "snappy"

	// MethodBrotli is Brotli compression, an alternative strong codec.
	MethodBrotli Method = "brotli"
)

// String returns the method name.
func (m Method) String() string {
	return string(m)
}

// Compressor compresses a complete payload in a single pass.
type Compressor interface {
	// Compress compresses the input and returns a newly allocated,
	// self-contained compressed payload. The input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor recovers the original payload from a compressed one.
//
// Extraction is not part of the archiver itself; the interface exists so
// that every codec round-trips and can be verified in isolation.
type Decompressor interface {
	// Decompress decompresses the input and returns the original bytes.
	// Returns an error if the data is corrupted or was produced by an
	// incompatible codec.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one method.
// Implementations must be safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}
