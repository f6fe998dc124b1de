// Package app wires the component catalog, the builder, the candidate-space
// explorer, and the tuner exporter into one application instance,
// decoupled from any specific entrypoint like a CLI.
package app
