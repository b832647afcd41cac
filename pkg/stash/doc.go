// Package stash accumulates the kernel objects, capability slots and special
// memory pages that tutorial templates declare while they render. Caps and
// pages are queued as unclaimed until an ELF is declared, at which point they
// become that ELF's cspace layout and special pages. The accumulated state is
// serialised into the manifest read by the capDL build step.
package stash
