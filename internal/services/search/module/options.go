package module

import "lectern/internal/platform/config"

// Options for the search module
type Options struct {
	MeiliURL     string
	MeiliAPIKey  string
	DefaultLimit int
	MaxLimit     int
}

// FromConfig loads search options from the environment.
// An empty MEILI_URL disables the primary engine entirely
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LECTERN_SEARCH_")
	return Options{
		MeiliURL:     c.MayString("MEILI_URL", ""),
		MeiliAPIKey:  c.MayString("MEILI_API_KEY", ""),
		DefaultLimit: c.MayInt("DEFAULT_LIMIT", 20),
		MaxLimit:     c.MayInt("MAX_LIMIT", 50),
	}
}
