package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/freshdesk/freshdesk-cli/internal/api"
)

// HandleError prints a human-oriented error message with suggestions to w.
// JSON-mode callers should print the StructuredError instead.
func HandleError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var rateLimitErr *api.RateLimitError
	if errors.As(err, &rateLimitErr) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		_, _ = fmt.Fprintln(w, "\nSuggestions:")
		_, _ = fmt.Fprintf(w, "  - Wait %s before retrying\n", rateLimitErr.RetryAfter)
		_, _ = fmt.Fprintln(w, "  - Reduce request frequency in scripts")
		return
	}

	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		_, _ = fmt.Fprintln(w, "\nSuggestions:")
		_, _ = fmt.Fprintln(w, "  - Run 'fd auth login' to update credentials")
		_, _ = fmt.Fprintln(w, "  - Check the API key in your helpdesk profile settings")
		_, _ = fmt.Fprintln(w, "  - Verify the helpdesk domain is correct (fd auth status)")
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		if suggestions := suggestionsForStatusCode(apiErr.StatusCode); len(suggestions) > 0 {
			_, _ = fmt.Fprintln(w, "\nSuggestions:")
			for _, s := range suggestions {
				_, _ = fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		return
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		_, _ = fmt.Fprintln(w, "\nSuggestions:")
		_, _ = fmt.Fprintln(w, "  - Check the helpdesk domain (fd auth status)")
		_, _ = fmt.Fprintln(w, "  - Check network connectivity")
	case strings.Contains(msg, "certificate"):
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		_, _ = fmt.Fprintln(w, "\nSuggestions:")
		_, _ = fmt.Fprintln(w, "  - The helpdesk's TLS certificate could not be verified")
		_, _ = fmt.Fprintln(w, "  - Confirm the domain points at the real helpdesk")
	default:
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func suggestionsForStatusCode(statusCode int) []string {
	switch statusCode {
	case 401:
		return []string{"Run 'fd auth login' to update credentials"}
	case 403:
		return []string{"Check your agent's permissions in the helpdesk"}
	case 404:
		return []string{"Verify the resource ID exists", "Check you are pointed at the right helpdesk (fd auth status)"}
	case 422:
		return []string{"Check the input values for missing or malformed fields"}
	default:
		if statusCode >= 500 {
			return []string{"The helpdesk returned a server error; try again later"}
		}
		return nil
	}
}

// ExitWithError prints the error to stderr and exits with its mapped code.
func ExitWithError(err error) {
	HandleError(os.Stderr, err)
	os.Exit(ExitCode(err))
}
