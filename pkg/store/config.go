package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// BackendDiskv stores one JSON file per record under the base path.
	BackendDiskv = "diskv"
	// BackendSQLite stores records in a single SQLite database under the base path.
	BackendSQLite = "sqlite"
	// BackendMemory keeps records in process memory.
	BackendMemory = "memory"
)

// Config locates the record store.
type Config interface {
	BasePath() string
	Backend() string
}

// SetDefaults registers the configuration defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("path", "~/.taskflow/")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("mode", "")
	v.SetDefault("view", "")
	v.SetDefault("month.preview", 2)
	v.SetDefault("user.id", os.Getenv("USER"))
	v.SetDefault("user.name", "")
}

// LoadConfig reads .taskflow.yaml from TASKFLOW_CONFIG_PATH, the working directory or the
// home directory, with TASKFLOW_* environment variables taking precedence. A missing config
// file is not an error.
func LoadConfig() (Config, error) {
	v := viper.GetViper()
	SetDefaults(v)
	v.SetConfigName(".taskflow")
	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("TASKFLOW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from already loaded settings.
func FromViper(v *viper.Viper) (Config, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{Path: filepath.Clean(path), Kind: v.GetString("backend")}, nil
}

// NewConfig returns a Config for the given path and backend.
func NewConfig(path, backend string) Config {
	return &fileConfig{Path: path, Kind: backend}
}

type fileConfig struct {
	Path string `json:"path"`
	Kind string `json:"backend"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	if f.Kind == "" {
		return BackendDiskv
	}
	return f.Kind
}
