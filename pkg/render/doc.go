// Package render holds the engine-agnostic half of the tutorial template
// helpers. A Session binds the render arguments, the tutorial state and the
// output writer, and exposes one operation per template function or filter.
// Functions, Filters and Values present those operations in the loosely typed
// form template engines call them with.
package render
