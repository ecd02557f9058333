// Package textutil provides filename sanitization and small display
// formatting helpers shared by the CLI and the acquisition workflow.
package textutil
