// Package easyapply renders application documents, such as a CV or a cover
// letter, from a YAML project description and an HTML theme.
//
// # Projects
//
// A project directory holds application.yaml (or application.yml) and,
// there or in its parent, a themes/<name>/templates directory:
//
//	jane/
//	├── application.yaml
//	└── themes/
//	    └── classic/
//	        └── templates/
//	            └── cv.html
//
// The config names the theme and carries the data templates read:
//
//	theme:
//	  name: classic
//	cv:
//	  name: Jane Doe
//	documents:
//	  cv:
//	  letter:
//	    template: cover.html
//	    company: ACME
//
// Without documents, every template listed in theme.templates (default
// cv.html) is rendered to a file of the same base name.
//
// # Building
//
//	b := easyapply.NewBuilder()
//	defer b.Close()
//
//	res, err := b.Build(ctx, easyapply.BuildOptions{
//	    ProjectDir: "jane",
//	    OutputDir:  "jane/out",
//	    PDF:        true,
//	})
//
// Templates use pongo2 (Django/Jinja) syntax. Besides the config data they
// see theme_dir, build_pdf and, for declared documents, document. A set of
// filters and functions embeds images, SVG icons, scripts and BibTeX
// bibliographies; expensive results are cached on disk by content hash
// under $EASYAPPLY_CACHE_DIR (default $TMPDIR/easyapply-cache).
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package easyapply
