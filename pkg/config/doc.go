// Package config loads the project configuration from scaffold.toml.
//
// Values are layered with koanf: embedded defaults, then the project's
// scaffold.toml, then SCAFFOLD_* environment variables. Settings live
// under [scaffold]; [variables] holds the values templates see and that
// packages resolve through their questions. Store writes resolved values
// back to the same file.
package config
