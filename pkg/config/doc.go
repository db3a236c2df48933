// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env/v11 struct tags. Before parsing, an
// optional .env file in the working directory is read once with
// github.com/joho/godotenv; values already set in the process environment
// take precedence.
//
// Options narrow the input for a particular caller: WithPrefix shares one
// struct between services, WithEnvFiles points at explicit dotenv files and
// WithEnvironment parses from a map, which keeps tests independent of the
// process environment.
//
// All failures wrap ErrParsingConfig or ErrLoadEnvFile and can be matched
// with errors.Is.
package config
