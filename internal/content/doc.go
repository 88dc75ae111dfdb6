// Package content holds the article normalization pipeline: title cleaning,
// slug derivation, excerpt and read-time computation, Markdown rendering and
// upload parsing. Everything here is pure and safe for concurrent use.
package content
