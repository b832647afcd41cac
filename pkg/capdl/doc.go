// Package capdl exposes the capDL object and rights identifiers that tutorial
// templates refer to when recording kernel objects. Only the names live here;
// the capability object model itself belongs to the capDL tooling that reads
// the generated manifest.
package capdl
