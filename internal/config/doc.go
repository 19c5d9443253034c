// Package config defines the configuration for certmesh tools.
//
// Configuration sources, from lowest to highest priority:
//
//  1. Defaults (Default)
//  2. YAML configuration file
//  3. CERTMESH_-prefixed environment variables (CERTMESH_LOG_LEVEL, …)
//  4. Bare artifact overrides (COMMON_NAME, CA_KEY, CA_CRT, SERVER_KEY,
//     SERVER_CSR, SERVER_CRT, CLIENT_KEY, CLIENT_CSR, CLIENT_CRT)
//
// The bare names mirror the original shell workflow so existing
// environments keep working unchanged.
package config
