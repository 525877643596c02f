// Package plan builds the destination plan for a run.
//
// Packages are added lowest priority first. Each operation is keyed by its
// normalized destination; when a later operation targets a destination
// already in the plan it wins, the earlier one becomes a Skip naming the
// winner, and a winning merge keeps the base the earlier operation captured.
// Operations seen at a destination for the first time are bound there,
// which snapshots the current file for merges. No file is written while
// the plan is built.
//
// Sweep then turns operations whose content already matches the disk into
// skips so an unchanged project is not rewritten.
package plan
