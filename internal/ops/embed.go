package ops

import (
	"fmt"
	"mime"
	"strings"
)

// MimeType guesses the media type for a file extension, with or without the
// leading dot. Parameters such as "; charset=utf-8" are dropped.
func MimeType(ext string) (string, error) {
	if ext == "" {
		return "", fmt.Errorf("%w: empty extension", ErrUnknownMimeType)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	typ := mime.TypeByExtension(strings.ToLower(ext))
	if typ == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownMimeType, ext)
	}
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = strings.TrimSpace(typ[:i])
	}
	return typ, nil
}

// EmbedImage builds an img element carrying base64 data inline.
// ext selects the media type (e.g. "png", "jpg", "svg").
func EmbedImage(b64, ext string, attrs []Attribute) (string, error) {
	attrs, err := NormalizeAttributes(attrs)
	if err != nil {
		return "", err
	}
	typ, err := MimeType(ext)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<img%s src='data:%s;base64,%s'>", formatAttributes(attrs), typ, b64), nil
}
