// Package envline encodes Go values as shell-style NAME=VALUE lines.
//
// Scalars become one assignment line each, with the key derived from the
// chain of struct field names between the root and the value, upper-snake
// cased and joined with underscores. Sequences collapse into a single
// single-quoted, comma-separated token on one line. Enum-like values use
// inline composite literals ({"Variant":...}).
//
// The package exposes high-level Marshal/MarshalString helpers as well as
// a streaming Encoder. Encoding is write-only; there is no decoder.
//
// String contents are copied verbatim: quote characters, separators, and
// composite delimiters inside a string are not escaped.
package envline
