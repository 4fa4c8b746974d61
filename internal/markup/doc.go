// Package markup holds the HTML and Markdown plumbing shared by template
// operations and the PDF path:
//   - Markdown fragments to sanitized HTML via Goldmark and bluemonday
//   - extraction of a document's <body> inner markup
//   - rewriting of relative resource paths to file:// URLs before rasterizing
package markup
