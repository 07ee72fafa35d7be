package mapper

// Config holds configuration for column-to-field inference.
type Config struct {
	// APIKey authenticates the inference backend. Empty disables the
	// oracle; keyword matching still applies.
	APIKey string `mapstructure:"api_key" default:""`
	// Model is the generative model used for inference.
	Model string `mapstructure:"model" default:"gemini-2.0-flash-exp"`
	// TimeoutSeconds bounds a single inference call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// CacheSize is the number of distinct header rows to remember.
	CacheSize int `mapstructure:"cache_size" default:"128"`
}
