// Package pipeline builds and transforms the letter markup.
//
// Stages, in the order an export runs them:
//   - body text (Markdown with inline HTML) to sanitized HTML via goldmark
//     and bluemonday
//   - letter markup from the letter template (LetterRenderer)
//   - local image embedding and editor affordance stripping
//   - external image inlining (AssetInliner)
//   - document shell and style injection
//
// Rasterization and package conversion live outside this package; the
// pipeline only produces markup strings.
package pipeline
