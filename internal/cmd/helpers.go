package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/freshdesk/freshdesk-cli/internal/api"
	"github.com/freshdesk/freshdesk-cli/internal/config"
	"github.com/freshdesk/freshdesk-cli/internal/iocontext"
	"github.com/freshdesk/freshdesk-cli/internal/outfmt"
)

// version is set at build time via ldflags
var version = "dev"

// errAlreadyHandled marks errors whose message has already been printed.
// Execute checks for it so the root command does not print them twice.
var errAlreadyHandled = errors.New("error already handled")

// handledError wraps an error after its message has been shown to the
// user, carrying the exit code for main to use.
type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string { return e.err.Error() }

func (e *handledError) Unwrap() error { return errAlreadyHandled }

// ExitCode returns the mapped exit code for the wrapped error.
func (e *handledError) ExitCode() int { return e.exitCode }

// RunE wraps a command function with error printing and exit-code mapping.
// In JSON mode the structured error goes to stderr as JSON; in text mode
// HandleError renders it with suggestions.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}

		ioStreams := iocontext.GetIO(cmd.Context())
		if isJSON(cmd) {
			se := api.StructuredErrorFromError(err)
			_ = outfmt.WriteJSON(ioStreams.ErrOut, se)
		} else {
			HandleError(ioStreams.ErrOut, err)
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// clientFactory builds API clients from resolved configuration plus the
// global flags.
type clientFactory struct {
	timeout   time.Duration
	userAgent string
	pageLimit int
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: "freshdesk-cli/" + version,
		pageLimit: flags.PageLimit,
	}
}

func (f *clientFactory) client(domainOverride string) (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(domainOverride)
	if err != nil {
		return nil, err
	}

	var c *api.Client
	if cfg.APIKey != "" {
		c = api.New(cfg.Domain, cfg.APIKey)
	} else {
		c = api.NewWithPassword(cfg.Domain, cfg.User, cfg.Password)
	}
	if f.timeout > 0 {
		c.HTTP.Timeout = f.timeout
	}
	c.UserAgent = f.userAgent
	if f.pageLimit > 0 {
		c.PageLimit = f.pageLimit
	}
	return c, nil
}

// getClient returns an API client configured from the stored account,
// environment, and global flags.
func getClient() (*api.Client, error) {
	return newClientFactory().client(flags.Domain)
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printJSON outputs data as JSON with optional jq filtering.
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	query := outfmt.GetQuery(cmd.Context())
	compact := outfmt.IsCompact(cmd.Context())
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query, compact)
}

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	ioStreams := iocontext.GetIO(cmd.Context())
	return newTabWriter(ioStreams.Out)
}

func cmdOut(cmd *cobra.Command) io.Writer {
	return iocontext.GetIO(cmd.Context()).Out
}

func cmdErrOut(cmd *cobra.Command) io.Writer {
	return iocontext.GetIO(cmd.Context()).ErrOut
}

// formatTime renders a model timestamp for table output.
func formatTime(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Time.Format("2006-01-02 15:04")
}

// truncate shortens a string for table columns.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// normalizeEnum resolves a user-supplied enum value against the valid set,
// accepting unambiguous prefixes.
func normalizeEnum(flagName, input string, valid []string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("--%s requires one of: %s", flagName, strings.Join(valid, ", "))
	}

	for _, v := range valid {
		if input == v {
			return v, nil
		}
	}

	var matches []string
	for _, v := range valid {
		if strings.HasPrefix(v, input) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("invalid --%s %q: must be one of %s", flagName, input, strings.Join(valid, ", "))
	default:
		return "", fmt.Errorf("ambiguous --%s %q: matches %s", flagName, input, strings.Join(matches, ", "))
	}
}

// stringFlagIfChanged returns a pointer to the flag's value only when the
// user set it, so updates can distinguish "clear this field" from "leave it".
func stringFlagIfChanged(cmd *cobra.Command, name string, value *string) *string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return nil
}

func boolFlagIfChanged(cmd *cobra.Command, name string, value *bool) *bool {
	if cmd.Flags().Changed(name) {
		return value
	}
	return nil
}
