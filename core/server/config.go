package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Enabled controls whether the HTTP API is started alongside the watcher.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// If empty, the API is unauthenticated.
	ApiKey string `mapstructure:"api_key" default:""`
}
