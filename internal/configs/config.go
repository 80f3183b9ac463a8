package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is written into new store configs. Bump when the on-disk
// layout changes in a way readers must detect.
const SchemaVersion = 1

type StoreConfig struct {
	Store StoreInfo `toml:"store"`
}

type StoreInfo struct {
	UUID      string    `toml:"store_uuid"`
	Name      string    `toml:"name"`
	Version   int       `toml:"schema_version"`
	CreatedAt time.Time `toml:"created_at"`
}

func configPath(root string) string {
	return filepath.Join(root, "config.toml")
}

// InitStoreConfig creates config.toml under root with a fresh store UUID.
// Fails if the store is already initialized.
func InitStoreConfig(root, name string) (*StoreConfig, error) {
	path := configPath(root)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("store already initialized at %s", root)
	}

	config := &StoreConfig{
		Store: StoreInfo{
			UUID:      uuid.NewString(),
			Name:      name,
			Version:   SchemaVersion,
			CreatedAt: time.Now().UTC(),
		},
	}
	if err := SaveTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to save store config: %w", err)
	}
	return config, nil
}

// LoadStoreConfig reads config.toml under root. A missing config is not an
// error; stores created before config.toml existed still work, they just
// have no identity for audit entries.
func LoadStoreConfig(root string) (*StoreConfig, error) {
	path := configPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &StoreConfig{}, nil
	}

	config := &StoreConfig{}
	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load store config: %w", err)
	}
	return config, nil
}
