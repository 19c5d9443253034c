// Package output provides output formatting for certmesh-cli.
//
// Commands produce either a Table (the human default) or any
// JSON-encodable value (-o json for scripting).
package output
