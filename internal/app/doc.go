// Package app wires the configuration engine into a runnable pipeline:
// load one file or a directory of files, merge them in order, apply
// dotted-path overrides, optionally interpolate, and render the result.
package app
