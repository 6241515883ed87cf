// Package codec implements the compression codecs behind each method.
package codec

import (
	"fmt"

	"github.com/jittakal/adzip/internal/errors"
	"github.com/jittakal/adzip/pkg/codec"
)

// New creates a Codec for the given method.
func New(method codec.Method) (codec.Codec, error) {
	switch method {
	case codec.MethodStore:
		return NewStoreCodec(), nil
	case codec.MethodDeflateFast:
		return NewDeflateCodec(DeflateFastest), nil
	case codec.MethodDeflateBest:
		return NewDeflateCodec(DeflateBest), nil
	case codec.MethodLZ4:
		return NewLZ4Codec(), nil
	case codec.MethodZstd:
		return NewZstdCodec(), nil
	case codec.MethodS2:
		return NewS2Codec(), nil
	case codec.MethodSnappy:
		return NewSnappyCodec(), nil
	case codec.MethodBrotli:
		return NewBrotliCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedMethod, method)
	}
}

var builtin = map[codec.Method]codec.Codec{
	codec.MethodStore:       NewStoreCodec(),
	codec.MethodDeflateFast: NewDeflateCodec(DeflateFastest),
	codec.MethodDeflateBest: NewDeflateCodec(DeflateBest),
	codec.MethodLZ4:         NewLZ4Codec(),
	codec.MethodZstd:        NewZstdCodec(),
	codec.MethodS2:          NewS2Codec(),
	codec.MethodSnappy:      NewSnappyCodec(),
	codec.MethodBrotli:      NewBrotliCodec(),
}

// Get retrieves a built-in shared Codec for the given method.
// Built-in codecs are stateless or internally pooled, so sharing one
// instance across workers is safe.
func Get(method codec.Method) (codec.Codec, error) {
	if c, ok := builtin[method]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedMethod, method)
}

// SupportedMethods lists every method the registry can serve.
func SupportedMethods() []codec.Method {
	return []codec.Method{
		codec.MethodStore,
		codec.MethodDeflateFast,
		codec.MethodDeflateBest,
		codec.MethodLZ4,
		codec.MethodZstd,
		codec.MethodS2,
		codec.MethodSnappy,
		codec.MethodBrotli,
	}
}

// IsSupported reports whether the method name maps to a built-in codec.
func IsSupported(method codec.Method) bool {
	_, ok := builtin[method]
	return ok
}
