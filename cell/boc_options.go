package cell

import (
	"github.com/arloliu/celldag/internal/options"
)

type serializeConfig struct {
	index     bool
	crc32c    bool
	cacheBits bool
}

func defaultSerializeConfig() *serializeConfig {
	return &serializeConfig{crc32c: true}
}

// SerializeOption configures Serialize.
type SerializeOption = options.Option[*serializeConfig]

// WithIndex enables or disables the offset index table. Disabled by default.
func WithIndex(enabled bool) SerializeOption {
	return options.NoError(func(c *serializeConfig) {
		c.index = enabled
	})
}

// WithCRC32C enables or disables the crc32c trailer. Enabled by default.
func WithCRC32C(enabled bool) SerializeOption {
	return options.NoError(func(c *serializeConfig) {
		c.crc32c = enabled
	})
}

// WithCacheBits marks cells reachable through more than one path in the
// index table.
// It implies WithIndex(true).
func WithCacheBits(enabled bool) SerializeOption {
	return options.NoError(func(c *serializeConfig) {
		c.cacheBits = enabled
		if enabled {
			c.index = true
		}
	})
}
