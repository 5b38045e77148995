package output

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"

	"github.com/matheuskafuri/newsletter/internal/api"
)

// Hint suggests a fix for well-known failures, or returns "".
func Hint(err error) string {
	switch {
	case errors.Is(err, api.ErrNoBaseURL):
		return "set api_url in the config file or export NEWSLETTER_API_URL"
	case errors.Is(err, api.ErrNetwork):
		return "check that the API is reachable"
	}
	switch api.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "pass --secret or export NEWSLETTER_ADMIN_SECRET"
	case http.StatusNotFound:
		return "check the id"
	}
	return ""
}

// FormatError prints err and, when known, a hint on stderr.
func (p *Printer) FormatError(err error) {
	hint := Hint(err)
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", err)
		if hint != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Hint: %s\n", hint)
		}
		return
	}
	fmt.Fprintf(p.err, "[ERROR] %s\n", err)
	if hint != "" {
		fmt.Fprintf(p.err, "  Hint: %s\n", hint)
	}
}
