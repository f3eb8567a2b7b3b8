package archive

import (
	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/compress"
	"github.com/arloliu/celldag/format"
	"github.com/arloliu/celldag/internal/options"
)

type config struct {
	compression format.CompressionType
	serialize   []cell.SerializeOption
}

func defaultConfig() *config {
	return &config{compression: format.CompressionZstd}
}

// Option configures Pack and PackCells.
type Option = options.Option[*config]

// WithCompression selects the payload codec. Defaults to zstd.
func WithCompression(t format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.CreateCodec(t, "archive"); err != nil {
			return err
		}
		c.compression = t

		return nil
	})
}

// WithSerializeOptions passes options to the BoC serializer used by PackCells.
func WithSerializeOptions(opts ...cell.SerializeOption) Option {
	return options.NoError(func(c *config) {
		c.serialize = append(c.serialize, opts...)
	})
}
