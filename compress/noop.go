package compress

// NoOpCompressor passes data through unchanged. Archives packed with it
// still carry the length and checksum header.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as-is.
//
// Note: the result shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressSize returns data as-is if it fits in size bytes.
func (c NoOpCompressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) > size {
		return nil, errDecodedSize(size)
	}

	return data, nil
}

// Decompress returns data as-is.
//
// Note: the result shares memory with the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
