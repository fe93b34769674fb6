// Package scope2 splits client electricity workbooks into per-facility
// report workbooks shaped like the Electricity template.
package scope2

import (
	"github.com/rs/zerolog"
	"github.com/ukaji3/scope2-go/pkg/scope2/config"
)

// Options configures a Pipeline.
type Options struct {
	// Config supplies the allow-list, mapping, constants and buckets.
	Config config.Config
	// Logger receives step progress at debug level and diagnostics at warn level.
	// The zero value discards everything.
	Logger zerolog.Logger
}

// DefaultOptions returns options using the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Config: config.Default(),
		Logger: zerolog.Nop(),
	}
}
