// Package file provides the TOML-backed configuration store.
// Settings live in ~/.pdfrag/config.toml unless another directory is given.
package file
