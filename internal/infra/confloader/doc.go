// Package confloader provides configuration loading mechanism.
//
// This package implements a flexible configuration loader that supports
// multiple sources and formats using koanf as the underlying library.
//
// Features:
//
//   - Multiple Sources: Files, environment variables, maps
//   - YAML configuration files
//   - Type Safety: Unmarshaling into typed structs
//   - Defaults: the target struct carries its own defaults
//
// Priority (highest to lowest):
//
//  1. Explicit map overrides (LoadMap)
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader
