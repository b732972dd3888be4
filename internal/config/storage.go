package config

import (
	"github.com/kelseyhightower/envconfig"
)

type StorageConfig struct {
	// DBPath is the path to the BoltDB file for pool persistence.
	DBPath string `toml:"db_path" envconfig:"STORAGE_DB_PATH"`

	// PersistenceEnabled controls whether pools are persisted to disk.
	PersistenceEnabled bool `toml:"persistence_enabled" envconfig:"STORAGE_PERSISTENCE_ENABLED"`

	// SnapshotFile is an optional JSON pool snapshot loaded at startup.
	SnapshotFile string `toml:"snapshot_file" envconfig:"STORAGE_SNAPSHOT_FILE"`
}

func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DBPath:             "./data/liquidity-router.db",
		PersistenceEnabled: false,
	}
}

func (c *StorageConfig) Key() string {
	return STORAGE_CONFIG_KEY
}

func (c *StorageConfig) Load() error {
	return envconfig.Process("", c)
}

func (c *StorageConfig) Validate() error {
	return nil
}
