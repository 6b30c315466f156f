package config

// DefaultExtensions is the extension routing table used when none is configured.
// Keys are collection names; values are file extensions (including the dot)
// routed to that collection during directory scans.
var DefaultExtensions = map[string][]string{
	"txt":   {".txt", ".md"},
	"csv":   {".csv"},
	"excel": {".xlsx", ".xls"},
	"json":  {".json"},
	"pdf":   {".pdf"},
	"web":   {".url"},
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.IndexRoot == "" {
		cfg.Storage.IndexRoot = "/usr/local/var/kensaku/data/indexes"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kensaku/data/db/documents.db"
	}
	if cfg.Documents.Dir == "" {
		cfg.Documents.Dir = "/usr/local/var/kensaku/data/documents"
	}
	if cfg.Documents.Extensions == nil {
		cfg.Documents.Extensions = DefaultExtensions
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 20
	}
	if cfg.Search.MinScore == 0 {
		cfg.Search.MinScore = 0.1
	}
	if cfg.Search.FuzzyDistance == 0 {
		cfg.Search.FuzzyDistance = 2
	}
	if cfg.Web.FetchTimeoutSeconds == 0 {
		cfg.Web.FetchTimeoutSeconds = 10
	}
}
