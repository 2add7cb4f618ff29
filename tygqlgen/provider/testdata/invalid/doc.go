// Package invalid holds one annotation mistake per file. Each file is used
// as the root file of its own extraction.
package invalid
