// Package types defines the asset record, audit entry, duplicate-resolution,
// and configuration types for the stockroom storage core, together with the
// standard sentinel errors shared by the store and its callers.
package types
