package config

// DefaultConfigFile is the conventional config file name.
const DefaultConfigFile = ".s5vector.yml"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".s5vector",
		Backend: BackendSQLite,
		Server: ServerConfig{
			Port: 8420,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			Oversample:   4,
		},
	}
}
