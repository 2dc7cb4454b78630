// Package gfa ingests and emits the tab-separated GFA1 line format
// (segment/link/path records) the storage engine treats as its external,
// collaborator-level graph interchange format. Parsing is best-effort: a
// malformed line is logged and skipped rather than aborting the whole file.
package gfa
