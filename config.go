package inkwell

import (
	"os"
	"path/filepath"
)

// Config holds all configuration for the inkwell engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.inkwell/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "inkwell".
	DBName string `json:"db_name" yaml:"db_name" mapstructure:"db_name"`

	// StorageDir controls where the database is created when DBPath is
	// not explicitly set. Options: "home" (default) uses ~/.inkwell/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir" mapstructure:"storage_dir"`

	// Segmentation thresholds.
	MinChapterWords       int `json:"min_chapter_words" yaml:"min_chapter_words" mapstructure:"min_chapter_words"`
	PreferredChapterWords int `json:"preferred_chapter_words" yaml:"preferred_chapter_words" mapstructure:"preferred_chapter_words"`
	MaxChapters           int `json:"max_chapters" yaml:"max_chapters" mapstructure:"max_chapters"`

	// MaxUploadBytes caps the size of a single manuscript upload.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// DefaultConfig returns a Config with the documented defaults.
// Database is stored in ~/.inkwell/inkwell.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:                "inkwell",
		StorageDir:            "home",
		MinChapterWords:       500,
		PreferredChapterWords: 3000,
		MaxChapters:           100,
		MaxUploadBytes:        50 << 20, // 50MB
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "inkwell"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		return filepath.Join(home, ".inkwell", name+".db")
	}
}
