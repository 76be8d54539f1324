// Package stockroom holds module-wide identity shared by the CLI and
// library surfaces.
package stockroom

// Version is the semantic version of the stockroom module.
const Version = "0.1.0"
