package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
)

// Named ticket-list filters the remote defines. Anything else passes
// through to the API verbatim.
const (
	FilterAllTickets = "all_tickets"
	FilterNewMyOpen  = "new_my_open"
	FilterSpam       = "spam"
	FilterDeleted    = "deleted"
)

// ErrTooManyPages means a ticket listing hit the page cap without the
// remote ever returning an empty page. Either the view really is that big
// or the server is echoing the last page forever.
var ErrTooManyPages = errors.New("ticket listing exceeded the page limit")

// ListTicketsParams defines the view and extra filters for a ticket listing.
type ListTicketsParams struct {
	// Filter names a server-defined view; empty means all_tickets.
	Filter string
	// Params are passed through to the remote API as query parameters.
	Params map[string]string
}

// Get fetches the full ticket for the given display id.
func (s TicketsService) Get(ctx context.Context, id int) (*Ticket, error) {
	return getTicket(ctx, s, id)
}

func getTicket(ctx context.Context, r Requester, id int) (*Ticket, error) {
	var result struct {
		Ticket Ticket `json:"helpdesk_ticket"`
	}
	path := fmt.Sprintf("helpdesk/tickets/%d.json", id)
	if err := r.do(ctx, http.MethodGet, r.resourcePath(path), nil, &result); err != nil {
		return nil, err
	}
	if err := result.Ticket.checkPresent(); err != nil {
		return nil, fmt.Errorf("ticket %d: %w", id, err)
	}
	return &result.Ticket, nil
}

// ListSummaries walks the pages of a filtered listing and returns the raw
// page entries. The loop stops at the first empty page; pageLimit guards
// against a server that never returns one.
func (s TicketsService) ListSummaries(ctx context.Context, params ListTicketsParams) ([]TicketSummary, error) {
	return listTicketSummaries(ctx, s, params, s.pageLimit())
}

func (s TicketsService) pageLimit() int {
	if s.PageLimit > 0 {
		return s.PageLimit
	}
	return DefaultPageLimit
}

func listTicketSummaries(ctx context.Context, r Requester, params ListTicketsParams, pageLimit int) ([]TicketSummary, error) {
	filter := params.Filter
	if filter == "" {
		filter = FilterAllTickets
	}

	extra := ""
	if len(params.Params) > 0 {
		query := url.Values{}
		for k, v := range params.Params {
			query.Set(k, v)
		}
		extra = "&" + query.Encode()
	}

	var tickets []TicketSummary
	for page := 1; ; page++ {
		if page > pageLimit {
			return nil, fmt.Errorf("%w (%d pages)", ErrTooManyPages, pageLimit)
		}
		path := fmt.Sprintf("helpdesk/tickets/filter/%s.json?format=json&page=%d%s", url.PathEscape(filter), page, extra)
		var thisPage []TicketSummary
		if err := r.do(ctx, http.MethodGet, r.resourcePath(path), nil, &thisPage); err != nil {
			return nil, err
		}
		if len(thisPage) == 0 {
			break
		}
		tickets = append(tickets, thisPage...)
	}
	return tickets, nil
}

// List walks a filtered listing and re-fetches every entry by display id,
// returning full tickets. Listing pages only carry summaries, so this is
// one extra round trip per ticket.
func (s TicketsService) List(ctx context.Context, params ListTicketsParams) ([]Ticket, error) {
	summaries, err := s.ListSummaries(ctx, params)
	if err != nil {
		return nil, err
	}
	tickets := make([]Ticket, 0, len(summaries))
	for _, summary := range summaries {
		ticket, err := getTicket(ctx, s, summary.DisplayID)
		if err != nil {
			return nil, fmt.Errorf("fetching ticket %d from listing: %w", summary.DisplayID, err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, nil
}

// ListAll lists every ticket, closed or open.
func (s TicketsService) ListAll(ctx context.Context) ([]Ticket, error) {
	return s.List(ctx, ListTicketsParams{Filter: FilterAllTickets})
}

// ListOpen lists new and open tickets assigned to the authenticated agent.
func (s TicketsService) ListOpen(ctx context.Context) ([]Ticket, error) {
	return s.List(ctx, ListTicketsParams{Filter: FilterNewMyOpen})
}

// ListDeleted lists deleted tickets.
func (s TicketsService) ListDeleted(ctx context.Context) ([]Ticket, error) {
	return s.List(ctx, ListTicketsParams{Filter: FilterDeleted})
}

// KnownFilters returns the named filters this client recognizes, sorted.
func KnownFilters() []string {
	filters := []string{FilterAllTickets, FilterNewMyOpen, FilterSpam, FilterDeleted}
	sort.Strings(filters)
	return filters
}
