package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newAPICmd returns the raw API escape hatch for endpoints the CLI does not
// wrap.
func newAPICmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "api <method> <path>",
		Short: "Make a raw API request",
		Long: strings.TrimSpace(`
Make an authenticated request against any helpdesk API path and print the
raw response. Paths are relative to the helpdesk base URL.
`),
		Example: strings.TrimSpace(`
  fd api get helpdesk/tickets/1042.json

  # POST with a body from a file or stdin
  fd api post discussions/topics.json --input body.json
  echo '{"topic":{"title":"hi"}}' | fd api post discussions/topics.json --input -
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method, err := normalizeEnum("method", args[0], []string{"get", "post", "put", "delete"})
			if err != nil {
				return err
			}
			path := strings.TrimSpace(args[1])
			if path == "" {
				return fmt.Errorf("path is required")
			}
			if strings.Contains(path, "://") {
				return fmt.Errorf("path must be relative to the helpdesk base URL, not a full URL")
			}

			var body any
			if input != "" {
				data, err := readInput(input)
				if err != nil {
					return err
				}
				if !json.Valid(data) {
					return fmt.Errorf("request body is not valid JSON")
				}
				body = json.RawMessage(data)
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			raw, err := client.DoRaw(cmd.Context(), strings.ToUpper(method), path, body)
			if err != nil {
				return err
			}

			out := cmdOut(cmd)
			if isJSON(cmd) && json.Valid(raw) {
				return printJSON(cmd, json.RawMessage(raw))
			}
			_, _ = out.Write(raw)
			if len(raw) > 0 && raw[len(raw)-1] != '\n' {
				_, _ = fmt.Fprintln(out)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&input, "input", "", "JSON request body from a file ('-' for stdin)")

	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --input %q: %w", path, err)
	}
	return data, nil
}

// newStatusCmd returns the status command, which pings the helpdesk with a
// cheap listing request and reports reachability plus rate-limit headroom.
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check helpdesk reachability and rate-limit headroom",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			_, pingErr := client.DoRaw(cmd.Context(), http.MethodGet, "helpdesk/tickets/filter/all_tickets.json?format=json&page=1", nil)
			rateLimit := client.LastRateLimit()

			if isJSON(cmd) {
				payload := map[string]any{
					"domain":    client.BaseURL,
					"reachable": pingErr == nil,
				}
				if pingErr != nil {
					payload["error"] = pingErr.Error()
				}
				if meta := rateLimit.Meta(); meta != nil {
					payload["rate_limit"] = meta
				}
				if err := printJSON(cmd, payload); err != nil {
					return err
				}
				return pingErr
			}

			out := cmdOut(cmd)
			_, _ = fmt.Fprintf(out, "Helpdesk: %s\n", client.BaseURL)
			if pingErr != nil {
				return pingErr
			}
			_, _ = fmt.Fprintln(out, "Status: reachable")
			if rateLimit != nil {
				if rateLimit.Remaining != nil && rateLimit.Limit != nil {
					_, _ = fmt.Fprintf(out, "Rate limit: %d/%d remaining\n", *rateLimit.Remaining, *rateLimit.Limit)
				}
				if rateLimit.ResetAt != nil {
					_, _ = fmt.Fprintf(out, "Resets: %s\n", rateLimit.ResetAt.Local().Format("2006-01-02 15:04:05"))
				}
			}
			return nil
		}),
	}

	return cmd
}
