package module

import "lectern/internal/platform/config"

// Options holds configuration settings for the library module
type Options struct {
	ListHardLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	lf := cfg.Prefix("LECTERN_LIBRARY_")
	return Options{
		ListHardLimit: lf.MayInt("LIST_HARD_LIMIT", 100),
	}
}
