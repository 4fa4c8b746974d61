// Package theme locates themes on disk and turns their templates into
// executable pongo2 templates wired to the content operations.
//
// # Directory Structure
//
//	{project}/                   or  {project}/../
//	└── themes/
//	    └── {name}/
//	        ├── templates/
//	        │   ├── cv.html          # default template
//	        │   └── letter.html
//	        └── ...                  # theme assets referenced by templates
//
// # Environments
//
// A Resolver owns one Environment per absolute templates directory. An
// Environment keeps compiled templates keyed by the SHA-256 of their source,
// so editing a template yields a fresh compile while unchanged templates are
// reused. Resolver.Invalidate drops every environment; watch mode calls it
// after each rebuild.
//
// # Operations
//
// Pure operations are pongo2 filters ({{ url|strip_url_protocol }}),
// registered once per process. Operations that need I/O, external tools or
// the cache are functions bound to the Resolver's ops.Library and injected
// per execution ({{ embed_svg("icons/mail.svg", "class_", "icon") }}). Every
// filter is also callable as a function. Data supplied by the caller shadows
// functions of the same name.
package theme
