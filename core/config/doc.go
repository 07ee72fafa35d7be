// Package config aggregates the partial configurations of the
// application into a single Config struct and loads them from the
// environment and an optional .env file. Defaults come from `default`
// struct tags on each partial config.
package config
