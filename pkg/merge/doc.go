// Package merge reconciles the current content of a destination with newly
// generated content.
//
// The format family is picked from the destination path alone (see
// DetectFormat), never from the content:
//
//   - FormatLine: ignore/attribute style lists keyed by their first token
//   - FormatEnv: KEY=value files keyed by the text before the first "="
//   - FormatJSON: deep merge of objects, original indentation kept
//   - FormatYAML: deep merge of mappings, comments and blank lines kept
//
// Merging is pure and deterministic, and merging the same incoming content
// twice yields the same bytes as merging it once. When a merge would not
// change anything the original bytes are returned untouched.
package merge
