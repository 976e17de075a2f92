// Package config provides configuration loading, merging, and validation
// facilities for qthena.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON or TOML config file
//  3. Environment variables (QTHENA_ prefix)
//  4. Command-line flags
//
// The entry point is [GetConfig], which returns an immutable, typed [Config].
// Missing required keys fail here, at load time, never at first use.
package config
