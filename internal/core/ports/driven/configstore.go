package driven

// ConfigStore persists key-value configuration.
type ConfigStore interface {
	// Get retrieves a value by key. Returns false if not set.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if unset.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if unset.
	GetInt(key string) int

	// GetFloat retrieves a float value, or 0 if unset.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, or false if unset.
	GetBool(key string) bool

	// Set stores a value for a key.
	Set(key string, value any) error

	// Delete removes a key.
	Delete(key string) error

	// Save persists the configuration.
	Save() error

	// Load reads the configuration from its backing store.
	Load() error
}
