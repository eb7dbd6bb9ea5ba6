package persistence

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Password  string `yaml:"password" json:"password"`
	DB        int    `yaml:"db" json:"db"`
	PoolSize  int    `yaml:"pool_size" json:"pool_size"`
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
}

// HistoryConfig selects the chat history backend.
type HistoryConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend" json:"backend"`
	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `yaml:"path" json:"path"`
}

// StoreConfig selects and configures the persistence backends.
type StoreConfig struct {
	// Backend is "memory" or "redis" and covers both workflow checkpoints and
	// user profiles.
	Backend string        `yaml:"backend" json:"backend"`
	Redis   RedisConfig   `yaml:"redis" json:"redis"`
	History HistoryConfig `yaml:"history" json:"history"`
}

// DefaultStoreConfig returns an all-in-memory configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Backend: "memory",
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			PoolSize:  10,
			KeyPrefix: "coach:",
		},
		History: HistoryConfig{
			Backend: "memory",
			Path:    "coach_history.db",
		},
	}
}
