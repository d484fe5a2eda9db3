package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mselway/inkwell"
)

// configManager loads configuration from file and environment and
// supports hot-reloading while the server runs.
type configManager struct {
	mu        sync.RWMutex
	config    inkwell.Config
	callbacks []func(inkwell.Config)
}

// newConfigManager sets up viper and loads the initial config.
// Precedence: flags > INKWELL_* environment variables > config file >
// defaults.
func newConfigManager(cfgFile string) (*configManager, error) {
	cm := &configManager{}

	defaults := inkwell.DefaultConfig()
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("db_name", defaults.DBName)
	viper.SetDefault("storage_dir", defaults.StorageDir)
	viper.SetDefault("min_chapter_words", defaults.MinChapterWords)
	viper.SetDefault("preferred_chapter_words", defaults.PreferredChapterWords)
	viper.SetDefault("max_chapters", defaults.MaxChapters)
	viper.SetDefault("max_upload_bytes", defaults.MaxUploadBytes)

	viper.SetEnvPrefix("INKWELL")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.inkwell")
	}

	// The config file is optional; defaults and env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg, err := load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func load() (inkwell.Config, error) {
	var cfg inkwell.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Get returns the current configuration.
func (cm *configManager) Get() inkwell.Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback invoked after a successful reload.
func (cm *configManager) OnChange(fn func(inkwell.Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// Watch enables hot-reloading when the config file changes on disk.
func (cm *configManager) Watch() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(inkwell.Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}
