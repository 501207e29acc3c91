package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/freshdesk/freshdesk-cli/internal/api"
	"github.com/freshdesk/freshdesk-cli/internal/outfmt"
	"github.com/freshdesk/freshdesk-cli/internal/validation"
)

// bulkGetConcurrency bounds parallel ticket fetches in a multi-id get.
const bulkGetConcurrency = 4

func newTicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket", "t"},
		Short:   "Work with helpdesk tickets",
	}

	cmd.AddCommand(newTicketsGetCmd())
	cmd.AddCommand(newTicketsListCmd())

	return cmd
}

func newTicketsGetCmd() *cobra.Command {
	var showComments bool

	cmd := &cobra.Command{
		Use:   "get <id> [id...]",
		Short: "Fetch tickets by display id",
		Long:  "Fetch one or more tickets by display id. Multiple ids are fetched concurrently.",
		Example: strings.TrimSpace(`
  # Single ticket
  fd tickets get 1042

  # Several tickets at once, as JSON
  fd tickets get 1042 1043 1044 --json

  # Include the comment thread
  fd tickets get 1042 --comments
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, arg := range args {
				id, err := validation.ParsePositiveInt(arg, "ticket id")
				if err != nil {
					return err
				}
				ids[i] = id
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			tickets := make([]*api.Ticket, len(ids))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(bulkGetConcurrency)
			for i, id := range ids {
				i, id := i, id
				g.Go(func() error {
					ticket, err := client.Tickets().Get(ctx, id)
					if err != nil {
						return err
					}
					tickets[i] = ticket
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if isJSON(cmd) {
				if len(tickets) == 1 {
					return printJSON(cmd, tickets[0])
				}
				return printJSON(cmd, tickets)
			}

			out := cmdOut(cmd)
			for i, ticket := range tickets {
				if i > 0 {
					_, _ = fmt.Fprintln(out)
				}
				printTicket(cmd, ticket, showComments)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&showComments, "comments", false, "Include the ticket's comment thread")

	return cmd
}

func printTicket(cmd *cobra.Command, ticket *api.Ticket, showComments bool) {
	out := cmdOut(cmd)
	_, _ = fmt.Fprintf(out, "Ticket #%d: %s\n", ticket.DisplayID, ticket.Subject)
	_, _ = fmt.Fprintf(out, "  Status: %s\n", ticket.Status())
	_, _ = fmt.Fprintf(out, "  Priority: %s\n", ticket.Priority())
	_, _ = fmt.Fprintf(out, "  Source: %s\n", ticket.Source())
	if ticket.RequesterID != 0 {
		_, _ = fmt.Fprintf(out, "  Requester: %d\n", ticket.RequesterID)
	}
	if ticket.ResponderID != 0 {
		_, _ = fmt.Fprintf(out, "  Responder: %d\n", ticket.ResponderID)
	}
	if ticket.Deleted.Bool() {
		_, _ = fmt.Fprintln(out, "  Deleted: yes")
	}
	if ticket.Spam.Bool() {
		_, _ = fmt.Fprintln(out, "  Spam: yes")
	}
	_, _ = fmt.Fprintf(out, "  Created: %s\n", formatTime(ticket.CreatedAt))
	_, _ = fmt.Fprintf(out, "  Updated: %s\n", formatTime(ticket.UpdatedAt))
	if ticket.Description != "" {
		_, _ = fmt.Fprintf(out, "\n%s\n", ticket.Description)
	}

	if showComments {
		comments := ticket.Comments()
		if len(comments) == 0 {
			_, _ = fmt.Fprintln(out, "\nNo comments.")
			return
		}
		_, _ = fmt.Fprintf(out, "\nComments (%d):\n", len(comments))
		for _, comment := range comments {
			visibility := ""
			if comment.Private.Bool() {
				visibility = " (private)"
			}
			_, _ = fmt.Fprintf(out, "  [%s] user %d%s:\n", formatTime(comment.CreatedAt), comment.UserID, visibility)
			_, _ = fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(comment.Body, "\n", "\n    "))
		}
	}
}

func newTicketsListCmd() *cobra.Command {
	var (
		filter    string
		params    []string
		summaries bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tickets in a filtered view",
		Long: strings.TrimSpace(`
List tickets in a server-defined view. Known filters: ` + strings.Join(api.KnownFilters(), ", ") + `;
other filter names pass through to the helpdesk verbatim.

Listing pages only carry summaries, so by default each entry is re-fetched
as a full ticket. Use --summaries to skip that and show the raw entries.
`),
		Example: strings.TrimSpace(`
  # All tickets
  fd tickets list

  # Open tickets assigned to you
  fd tickets list --filter new_my_open

  # Extra query parameters pass straight through
  fd tickets list --param requester_id=42

  # Fast listing without the per-ticket re-fetch
  fd tickets list --summaries
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			extraParams, err := parseKeyValuePairs(params)
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			listParams := api.ListTicketsParams{Filter: filter, Params: extraParams}

			if summaries {
				items, err := client.Tickets().ListSummaries(cmd.Context(), listParams)
				if err != nil {
					return err
				}
				return printTicketSummaries(cmd, items)
			}

			tickets, err := client.Tickets().List(cmd.Context(), listParams)
			if err != nil {
				return err
			}
			return printTicketList(cmd, tickets)
		}),
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "View name (default all_tickets)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Extra query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&summaries, "summaries", false, "List raw page entries without re-fetching full tickets")

	return cmd
}

func printTicketList(cmd *cobra.Command, tickets []api.Ticket) error {
	f := outfmt.NewFormatter(cmd.Context(), cmdOut(cmd), cmdErrOut(cmd))
	if isJSON(cmd) {
		return f.Output(tickets)
	}

	if len(tickets) == 0 {
		f.Empty("No tickets found.")
		return nil
	}

	f.StartTable([]string{"ID", "STATUS", "PRIORITY", "SUBJECT", "UPDATED"})
	for i := range tickets {
		t := &tickets[i]
		f.Row(
			strconv.Itoa(t.DisplayID),
			t.Status(),
			t.Priority(),
			truncate(t.Subject, 60),
			formatTime(t.UpdatedAt),
		)
	}
	return f.EndTable()
}

func printTicketSummaries(cmd *cobra.Command, items []api.TicketSummary) error {
	f := outfmt.NewFormatter(cmd.Context(), cmdOut(cmd), cmdErrOut(cmd))
	if isJSON(cmd) {
		return f.Output(items)
	}

	if len(items) == 0 {
		f.Empty("No tickets found.")
		return nil
	}

	f.StartTable([]string{"ID", "STATUS", "PRIORITY", "SUBJECT"})
	for _, item := range items {
		f.Row(
			strconv.Itoa(item.DisplayID),
			strconv.Itoa(item.StatusCode),
			strconv.Itoa(item.PriorityCode),
			truncate(item.Subject, 60),
		)
	}
	return f.EndTable()
}

// parseKeyValuePairs parses repeated key=value flags into a map, rejecting
// duplicates so a typo doesn't silently drop a filter.
func parseKeyValuePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		if _, dup := result[key]; dup {
			return nil, fmt.Errorf("duplicate --param key %q", key)
		}
		result[key] = value
	}
	return result, nil
}
