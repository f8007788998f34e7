package config

// Backend identifies a storage backend.
type Backend string

const (
	// BackendSQLite persists blobs and registry entries in a local SQLite file.
	BackendSQLite Backend = "sqlite"
	// BackendMemory keeps everything in process memory; data is lost on exit.
	BackendMemory Backend = "memory"
)

// Config is the top-level s5vector configuration, corresponding to .s5vector.yml.
type Config struct {
	DataDir string       `yaml:"data_dir" koanf:"data_dir"`
	Backend Backend      `yaml:"backend" koanf:"backend"`
	Owner   string       `yaml:"owner" koanf:"owner"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	Search  SearchConfig `yaml:"search" koanf:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// SearchConfig holds similarity search settings.
type SearchConfig struct {
	// DefaultLimit is the result count used when a query omits one.
	DefaultLimit int `yaml:"default_limit" koanf:"default_limit"`
	// Oversample is the multiplier applied before client-side folder
	// filtering of search results.
	Oversample int `yaml:"oversample" koanf:"oversample"`
}
