// Package compress provides the codecs used to shrink serialized bags of
// cells for storage and transport.
//
// A BoC is already deduplicated by cell hash, so compression only wins on
// repeated payload bytes inside distinct cells: long zero runs, repeated
// addresses, similar dictionary leaves. The archive package wraps the
// compressed bytes with a header that records the algorithm.
//
// # Algorithms
//
//   - None (format.CompressionNone): pass-through.
//   - Zstd (format.CompressionZstd): best ratio. Pure Go by default,
//     libzstd via gozstd with the cgo_zstd build tag.
//   - S2 (format.CompressionS2): fast with a reasonable ratio.
//   - LZ4 (format.CompressionLZ4): fastest decompression.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(boc)
//
// GetCodec returns shared instances; CreateCodec returns fresh ones. All
// codecs are safe for concurrent use.
package compress
