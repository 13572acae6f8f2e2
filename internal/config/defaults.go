package config

const (
	defaultCacheDir       = "~/.cache/longbox"
	defaultLogDir         = "~/.local/share/longbox/logs"
	defaultCatalogBaseURL = "https://metron.cloud/api"
	defaultSourceBaseURL  = "https://comicvine.gamespot.com/api"
	defaultCallsPerMinute = 25
	defaultTimeoutSeconds = 30
	defaultMaxRetries     = 3
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			CallsPerMinute: defaultCallsPerMinute,
			TimeoutSeconds: defaultTimeoutSeconds,
			MaxRetries:     defaultMaxRetries,
		},
		Source: Source{
			BaseURL:        defaultSourceBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
