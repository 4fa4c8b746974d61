package ops

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var (
	urlProtocolPattern    = regexp.MustCompile(`^\w+://(.+)`)
	githubUsernamePattern = regexp.MustCompile(`^github\.com/([\w-]+)(?:$|/)`)
	phoneStripper         = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// StripURLProtocol returns url without its scheme://. Text without a scheme
// is rejected.
func StripURLProtocol(url string) (string, error) {
	m := urlProtocolPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}
	return m[1], nil
}

// GitHubUsername extracts the account name from a GitHub profile URL.
func GitHubUsername(url string) (string, error) {
	rest, err := StripURLProtocol(url)
	if err != nil {
		return "", err
	}
	m := githubUsernamePattern.FindStringSubmatch(rest)
	if m == nil {
		return "", fmt.Errorf("%w: not a GitHub profile: %q", ErrInvalidURL, url)
	}
	return m[1], nil
}

// HrefPhone builds a tel: URI, dropping spaces, hyphens and parentheses.
func HrefPhone(phone string) string {
	return "tel:" + phoneStripper.Replace(phone)
}

// HrefEmail builds a mailto: URI.
func HrefEmail(email string) string {
	return "mailto:" + email
}

// SplitParagraphs splits text on blank lines. No trimming is applied.
func SplitParagraphs(text string) []string {
	return strings.Split(text, "\n\n")
}

// B64Encode returns the standard base64 encoding of data.
func B64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EmbedJS wraps code in an inline script element.
func EmbedJS(code string) string {
	return "<script type='text/javascript'>" + code + "</script>"
}
