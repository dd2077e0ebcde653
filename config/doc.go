// Package config implements a typed, mergeable configuration tree for
// programs assembled from registered components.
//
// A tree is parsed from an INI-like textual format in which section headers
// carry dotted paths and every assignment value is a JSON literal (with a
// verbatim-string fallback for bare tokens). String values of the form
// ${dotted.path} are placeholders: deferred references into the same tree
// that Interpolate resolves, with cycle detection. Merge combines a base
// tree with an override tree without breaking placeholder wiring or mixing
// arguments across differently named registry-reference blocks, and Render
// writes a tree back out in the same grammar.
//
// Every operation is purely functional over its inputs: parsing,
// interpolation, merging and rendering never mutate a tree they were given,
// so independent callers can share trees across goroutines freely.
package config
