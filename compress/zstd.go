package compress

// ZstdCompressor gives the best ratio of the built-in codecs and suits
// archived state snapshots.
//
// The default build uses the pure Go klauspost/compress encoder. Building
// with the cgo_zstd tag switches to the libzstd binding from
// valyala/gozstd. Both produce standard zstd frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
