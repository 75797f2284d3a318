// Package extensions registers the built-in extensions.
package extensions

import (
	"quiver/internal/extension"
	"quiver/internal/extensions/calculator"
	"quiver/internal/extensions/filesystem"
	"quiver/internal/extensions/kvstore"
)

// Options carries deployment defaults for built-in extensions.
type Options struct {
	// RedisURL is the kv_store default when an agent sets no redis_url.
	RedisURL string
}

// RegisterBuiltins adds every built-in extension to c.
func RegisterBuiltins(c *extension.Catalog, opts Options) error {
	defs := []extension.Definition{
		calculator.Definition(),
		filesystem.Definition(),
		kvstore.Definition(opts.RedisURL),
	}
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			return err
		}
	}
	return nil
}
