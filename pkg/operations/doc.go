// Package operations defines the unit of work bound to one destination.
//
// An Operation is one of a closed set of variants:
//
//   - *Skip: nothing is written, the reason is reported
//   - *Create: writes content when the destination is absent; with
//     Overwrite set it also replaces existing content
//   - *Merge: merges new content into what the destination held when the
//     plan was built
//   - *ReadConfig: resolves a package's questions into variables
//
// Behaviour lives in dispatch functions (Content, IsTemplated, Process,
// BindAtNewLocation, ResolveCollision) that switch over the variants, so
// every combination is handled in one place.
//
// Content is computed once per operation. Later calls return the first
// result even when called with different variables.
package operations
