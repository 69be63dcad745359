// Package config loads, validates and initializes the gamestart-auth configuration.
//
// Values come from (in increasing priority) built-in defaults, an optional YAML file,
// a .env file and GAMESTART_AUTH_* environment variables, and finally command-line flags.
package config
