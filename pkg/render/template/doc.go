// Package template defines the engine-agnostic renderer contract tutorial
// pipelines render through. The pongo2 implementation, together with the
// tutorial tags and session bindings, lives in the gotemplate subpackage.
package template
