// Package pipeline renders a tutorial template end to end: it builds the
// render session, runs the main template through the pongo2 engine, renders
// every template the main one queued with ExternalFile, and writes the
// resulting document.
package pipeline
