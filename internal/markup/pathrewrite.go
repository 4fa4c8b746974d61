package markup

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-easyapply/internal/fileutil"
)

// rewrittenAttrs lists, per element, the attribute holding a resource path.
var rewrittenAttrs = map[string]string{
	"img":    "src",
	"a":      "href",
	"link":   "href",
	"script": "src",
}

// RewriteRelativePaths converts relative img, a, link and script paths to
// absolute file:// URLs under baseDir, so a rendered page still finds its
// assets once it is written to a scratch location. If baseDir is empty,
// returns the HTML unchanged.
//
// URLs, anchors, absolute paths and paths escaping baseDir are left alone.
func RewriteRelativePaths(htmlContent, baseDir string) (string, error) {
	if baseDir == "" {
		return htmlContent, nil
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absBaseDir)

	return renderHTML(doc, isFragment)
}

func rewriteNode(n *html.Node, baseDir string) {
	if n.Type == html.ElementNode {
		if attr, ok := rewrittenAttrs[n.Data]; ok {
			rewriteAttr(n, attr, baseDir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, baseDir)
	}
}

func rewriteAttr(n *html.Node, attrName, baseDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(baseDir, attr.Val)
		if !fileutil.IsPathUnderDir(absPath, baseDir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isRelativePath reports whether path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || fileutil.IsURL(path) || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	for _, prefix := range []string{"file://", "data:", "mailto:", "tel:"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
