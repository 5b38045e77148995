// Package browser opens public site pages in the user's browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoSiteURL is returned when article links are requested without a
// configured public site.
var ErrNoSiteURL = errors.New("site url is not set: add site_url to the config file or export NEWSLETTER_SITE_URL")

// ArticleURL is the public page of a group in lang.
func ArticleURL(siteURL, lang, groupID string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if base == "" {
		return "", ErrNoSiteURL
	}
	if groupID == "" {
		return "", errors.New("article has no group id")
	}
	return base + "/" + url.PathEscape(lang) + "/articles/" + url.PathEscape(groupID), nil
}

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return nil
}

func Open(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids shell interpretation of the URL
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
