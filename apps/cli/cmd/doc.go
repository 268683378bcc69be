// Package cmd implements the courier CLI commands using Cobra.
//
// Available commands:
//   - send: Build a request from flags or a YAML file and dispatch it
//   - version: Show courier version information
//
// send supports repeating a request to collect latency percentiles and
// watching a request file to re-send it on every change.
package cmd
