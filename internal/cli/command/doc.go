// Package command provides CLI command definitions for certmesh-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command loads the
// same configuration stack the probe server uses, so flags, config
// file and environment behave identically across tools.
package command
