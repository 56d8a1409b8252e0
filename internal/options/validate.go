// Package options provides shared helpers for validating functional options.
package options

import "github.com/erraggy/oasbind/oaserrors"

// Source names one way of supplying input to a constructor.
type Source struct {
	// Option is the name of the option that sets the source (e.g. "WithFilePath")
	Option string
	// Set reports whether the option was applied
	Set bool
}

// ValidateSingleInputSource ensures exactly one of sources is set.
// It returns *oaserrors.ConfigError naming the options involved otherwise.
func ValidateSingleInputSource(sources ...Source) error {
	var set, all []string
	for _, s := range sources {
		all = append(all, s.Option)
		if s.Set {
			set = append(set, s.Option)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &oaserrors.ConfigError{
			Option:  "input source",
			Message: "must specify one of " + joinOptions(all),
		}
	default:
		return &oaserrors.ConfigError{
			Option:  "input source",
			Message: "only one of " + joinOptions(set) + " may be specified",
		}
	}
}

func joinOptions(names []string) string {
	out := ""
	for i, n := range names {
		switch {
		case i == 0:
		case i == len(names)-1:
			out += " or "
		default:
			out += ", "
		}
		out += n
	}
	return out
}
