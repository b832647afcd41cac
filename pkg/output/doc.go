// Package output writes the files a tutorial render generates. Writes only
// happen when an output directory is configured and the render is not for the
// documentation site; every written path is appended to an optional ledger so
// the build system can track generated files.
package output
