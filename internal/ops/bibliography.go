package ops

import (
	"fmt"
	"html"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/alnah/go-easyapply/internal/markup"
)

var braceStripper = strings.NewReplacer("{", "", "}", "")

// RenderBibliography formats BibTeX source as a numbered HTML list in file
// order with abbreviated first names, and returns the list markup only.
func RenderBibliography(source string) (string, error) {
	doc, err := BibliographyDocument(source)
	if err != nil {
		return "", err
	}
	inner, err := markup.BodyInner(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBibliography, err)
	}
	return inner, nil
}

// BibliographyDocument formats BibTeX source as a complete HTML document.
func BibliographyDocument(source string) (string, error) {
	bib, err := bibtex.Parse(strings.NewReader(source))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBibliography, err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Bibliography</title>\n</head>\n<body>\n")
	if len(bib.Entries) > 0 {
		b.WriteString("<dl>\n")
		for i, entry := range bib.Entries {
			fmt.Fprintf(&b, "<dt>%d</dt>\n<dd>%s</dd>\n", i+1, formatEntry(entry))
		}
		b.WriteString("</dl>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// formatEntry renders one entry in a plain, period-separated style:
//
//	J. Doe and A. Smith. Title. <em>Journal</em>, 12(3):1-10, 2020.
func formatEntry(e *bibtex.BibEntry) string {
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[strings.ToLower(k)] = strings.TrimSpace(braceStripper.Replace(v.String()))
	}
	field := func(name string) string { return html.EscapeString(fields[name]) }

	var parts []string
	if names := fields["author"]; names != "" {
		parts = append(parts, html.EscapeString(formatNames(names)))
	} else if names := fields["editor"]; names != "" {
		parts = append(parts, html.EscapeString(formatNames(names))+", editors")
	}

	switch strings.ToLower(e.Type) {
	case "book":
		if t := field("title"); t != "" {
			parts = append(parts, "<em>"+t+"</em>")
		}
		parts = append(parts, joinNonEmpty(", ", field("publisher"), field("year")))
	case "article":
		parts = append(parts, field("title"))
		venue := ""
		if j := field("journal"); j != "" {
			venue = "<em>" + j + "</em>"
		}
		volume := field("volume")
		if n := field("number"); n != "" && volume != "" {
			volume += "(" + n + ")"
		}
		if p := field("pages"); p != "" && volume != "" {
			volume += ":" + p
		}
		parts = append(parts, joinNonEmpty(", ", venue, volume, field("year")))
	case "inproceedings", "conference", "incollection":
		parts = append(parts, field("title"))
		venue := ""
		if bt := field("booktitle"); bt != "" {
			venue = "In <em>" + bt + "</em>"
		}
		pages := ""
		if p := field("pages"); p != "" {
			pages = "pages " + p
		}
		parts = append(parts, joinNonEmpty(", ", venue, pages, field("year")))
	default:
		parts = append(parts, field("title"))
		parts = append(parts, joinNonEmpty(", ", field("howpublished"), field("note"), field("year")))
	}
	if u := field("url"); u != "" {
		parts = append(parts, fmt.Sprintf(`URL: <a href="%s">%s</a>`, u, u))
	}

	return joinNonEmpty(". ", parts...) + "."
}

// formatNames turns a BibTeX name list into abbreviated display form.
// "Doe, John and Jane Ann Smith" becomes "J. Doe and J. A. Smith".
func formatNames(list string) string {
	raw := strings.Split(list, " and ")
	names := make([]string, 0, len(raw))
	for _, n := range raw {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, abbreviateName(n))
		}
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

func abbreviateName(name string) string {
	if name == "others" {
		return "others"
	}

	var first, last string
	if before, after, ok := strings.Cut(name, ","); ok {
		last, first = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		words := strings.Fields(name)
		last = words[len(words)-1]
		first = strings.Join(words[:len(words)-1], " ")
	}

	var initials []string
	for _, w := range strings.Fields(first) {
		initials = append(initials, initial(w))
	}
	return strings.TrimSpace(strings.Join(initials, " ") + " " + last)
}

// initial abbreviates one given name, keeping hyphenation: "Jean-Paul" -> "J.-P.".
func initial(word string) string {
	pieces := strings.Split(word, "-")
	for i, p := range pieces {
		r := []rune(p)
		if len(r) == 0 {
			continue
		}
		pieces[i] = string(r[0]) + "."
	}
	return strings.Join(pieces, "-")
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
