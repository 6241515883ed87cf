// Package strategy implements per-file compression method selection.
//
// The selector is a heuristic, not a content detector: a wrong
// classification only affects the speed/ratio trade-off, never
// correctness.
package strategy

import (
	"bytes"
	"path"
	"strings"

	"github.com/jittakal/adzip/pkg/codec"
)

const (
	// SmallFileThreshold is the size below which files always get the
	// fast general-purpose codec: latency over ratio.
	SmallFileThreshold = 64 * 1024

	// ProbeWindow is how many leading bytes are inspected to classify a
	// large file as text-like or binary.
	ProbeWindow = 2000
)

// storedExtensions enumerates file formats that are already compressed:
// images, video, audio, archives, and executable/library formats.
// Compressing these again wastes CPU for no ratio gain.
var storedExtensions = map[string]struct{}{
	// images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".heic": {}, ".avif": {},
	// video
	".mp4": {}, ".mkv": {}, ".avi": {}, ".mov": {}, ".webm": {},
	".wmv": {}, ".flv": {},
	// audio
	".mp3": {}, ".aac": {}, ".ogg": {}, ".opus": {}, ".m4a": {},
	".flac": {}, ".wma": {},
	// archives and compressed streams
	".zip": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".7z": {}, ".rar": {},
	".zst": {}, ".lz4": {}, ".br": {}, ".tgz": {}, ".jar": {},
	// executables and libraries
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {},
	".msi": {}, ".deb": {}, ".rpm": {}, ".apk": {},
}

// Config maps the three selector roles to codec methods. Zero values
// fall back to the defaults (deflate-fast, deflate-best, lz4).
type Config struct {
	// FastCodec handles files below SmallFileThreshold.
	FastCodec codec.Method

	// StrongCodec handles large text-like files.
	StrongCodec codec.Method

	// BinaryCodec handles large binary files.
	BinaryCodec codec.Method
}

// Selector decides the compression method for each file from its
// extension, size, and a sample of leading content.
type Selector struct {
	fast   codec.Method
	strong codec.Method
	binary codec.Method
}

// New creates a selector with the configured role mappings.
func New(cfg Config) *Selector {
	s := &Selector{
		fast:   codec.MethodDeflateFast,
		strong: codec.MethodDeflateBest,
		binary: codec.MethodLZ4,
	}
	if cfg.FastCodec != "" {
		s.fast = cfg.FastCodec
	}
	if cfg.StrongCodec != "" {
		s.strong = cfg.StrongCodec
	}
	if cfg.BinaryCodec != "" {
		s.binary = cfg.BinaryCodec
	}
	return s
}

// Select returns the compression method for one file. Rules, in order:
//
//  1. known-precompressed extension: store unmodified
//  2. size below SmallFileThreshold: fast general-purpose codec
//  3. no zero byte within the probe window: strong codec (text-like),
//     otherwise the fast byte-oriented codec (binary)
//
// sample holds up to the first ProbeWindow bytes of the file; a shorter
// sample means the file itself is shorter.
func (s *Selector) Select(name string, size int64, sample []byte) codec.Method {
	if HasStoredExtension(name) {
		return codec.MethodStore
	}
	if size < SmallFileThreshold {
		return s.fast
	}

	window := sample
	if len(window) > ProbeWindow {
		window = window[:ProbeWindow]
	}
	if bytes.IndexByte(window, 0) < 0 {
		return s.strong
	}
	return s.binary
}

// HasStoredExtension reports whether the file name carries an extension
// from the known-precompressed set. The check is case-insensitive.
func HasStoredExtension(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	_, ok := storedExtensions[ext]
	return ok
}
