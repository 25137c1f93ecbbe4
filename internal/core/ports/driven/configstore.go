package driven

import "github.com/custodia-labs/pdfrag/internal/core/domain"

// ConfigStore provides access to application configuration.
// Keys are dotted paths ("chunking.size", "embedding.provider").
// Implementations handle persistence (TOML files, memory) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value in memory.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path, empty for memory stores.
	Path() string
}

// SettingsOverlay applies settings from a source other than the config file,
// such as environment variables. Only values present in the source are changed.
type SettingsOverlay interface {
	Apply(settings *domain.Settings) error
}
