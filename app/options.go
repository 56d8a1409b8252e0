package app

import (
	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/spec"
)

// Option is a function that configures an App
type Option func(*config) error

// config holds the configuration for New
type config struct {
	// Input source (exactly one must be set)
	store    *document.Store
	filePath *string
	bytes    []byte

	// loader is consulted for documents referenced from a file or byte source.
	loader      document.Loader
	logger      spec.Logger
	maxRefDepth int
}

// WithStore uses an already populated Store as the input source.
func WithStore(s *document.Store) Option {
	return func(cfg *config) error {
		if s == nil {
			return &oaserrors.ConfigError{Option: "WithStore", Message: "store cannot be nil"}
		}
		cfg.store = s
		return nil
	}
}

// WithFilePath loads the main document from a local file. Relative
// references are loaded from the same directory unless WithLoader is given.
func WithFilePath(path string) Option {
	return func(cfg *config) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes parses the main document from YAML or JSON data.
func WithBytes(data []byte) Option {
	return func(cfg *config) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithLoader sets the Loader for external documents referenced from a
// WithFilePath or WithBytes source. It is ignored with WithStore, whose
// Store carries its own loader.
func WithLoader(l document.Loader) Option {
	return func(cfg *config) error {
		cfg.loader = l
		return nil
	}
}

// WithLogger sets the logger for the App and its Resolver.
func WithLogger(l spec.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxRefDepth overrides spec.MaxRefDepth for the App's Resolver.
func WithMaxRefDepth(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return &oaserrors.ConfigError{Option: "WithMaxRefDepth", Value: n, Message: "must be positive"}
		}
		cfg.maxRefDepth = n
		return nil
	}
}
