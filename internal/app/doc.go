// Package app wires application dependencies for the CLI.
//
// It loads Config from $HOME/.zoosanitario/config.yaml, then builds the
// logger, credentials gate, API client, repositories, event publisher and
// services, exposing them via the Wire struct for commands to use.
package app
