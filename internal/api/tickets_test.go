package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

const ticketJSON = `{
	"helpdesk_ticket": {
		"id": 1,
		"display_id": %d,
		"subject": "Printer on fire",
		"description": "It is on fire",
		"status": %d,
		"priority": 3,
		"source": 2,
		"requester_id": 7,
		"notes": [
			{"note": {"id": 11, "body": "Looking into it", "body_html": "<p>Looking into it</p>", "created_at": "2013-10-20T12:00:00+05:30", "updated_at": "2013-10-20T12:00:00+05:30"}}
		],
		"created_at": "2013-10-18T09:00:00+05:30",
		"updated_at": "2013-10-20T12:00:00+05:30"
	}
}`

func TestGetTicket(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		wantStatus   string
		wantPriority string
		wantSource   string
	}{
		{"known codes", 2, "open", "high", "portal"},
		{"pending status", 3, "pending", "high", "portal"},
		{"unknown status falls back to generated label", 7, "status_7", "high", "portal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/helpdesk/tickets/42.json" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(fmt.Sprintf(ticketJSON, 42, tt.statusCode)))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "key")
			ticket, err := client.Tickets().Get(context.Background(), 42)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if ticket.Subject != "Printer on fire" {
				t.Errorf("Subject = %q", ticket.Subject)
			}
			if got := ticket.Status(); got != tt.wantStatus {
				t.Errorf("Status() = %q, want %q", got, tt.wantStatus)
			}
			if got := ticket.Priority(); got != tt.wantPriority {
				t.Errorf("Priority() = %q, want %q", got, tt.wantPriority)
			}
			if got := ticket.Source(); got != tt.wantSource {
				t.Errorf("Source() = %q, want %q", got, tt.wantSource)
			}

			comments := ticket.Comments()
			if len(comments) != 1 {
				t.Fatalf("expected 1 comment, got %d", len(comments))
			}
			if comments[0].Body != "Looking into it" {
				t.Errorf("comment body = %q", comments[0].Body)
			}
		})
	}
}

func TestGetTicketMissingTimestampsFailsHydration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"helpdesk_ticket": {"id": 1, "display_id": 42, "subject": "x", "status": 2}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	_, err := client.Tickets().Get(context.Background(), 42)
	if err == nil {
		t.Fatal("expected hydration failure for missing created_at/updated_at")
	}
	if !strings.Contains(err.Error(), "created_at") {
		t.Errorf("error should name the missing field, got: %v", err)
	}
}

// ticketListServer serves `pages` full listing pages followed by an empty
// one, plus ticket detail endpoints for the re-fetch pass.
func ticketListServer(t *testing.T, pages, perPage int) (*httptest.Server, *int, *int) {
	t.Helper()
	listCalls := 0
	detailCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/helpdesk/tickets/filter/", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format param = %q, want json", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		if page > pages {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		entries := make([]string, 0, perPage)
		for i := 0; i < perPage; i++ {
			displayID := (page-1)*perPage + i + 1
			entries = append(entries, fmt.Sprintf(`{"display_id": %d, "subject": "t%d", "status": 2, "priority": 1}`, displayID, displayID))
		}
		_, _ = w.Write([]byte("[" + strings.Join(entries, ",") + "]"))
	})
	mux.HandleFunc("/helpdesk/tickets/", func(w http.ResponseWriter, r *http.Request) {
		detailCalls++
		var id int
		_, _ = fmt.Sscanf(r.URL.Path, "/helpdesk/tickets/%d.json", &id)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fmt.Sprintf(ticketJSON, id, 2)))
	})
	server := httptest.NewServer(mux)
	return server, &listCalls, &detailCalls
}

func TestListTicketsPaginatesAndRefetches(t *testing.T) {
	const pages, perPage = 3, 2
	server, listCalls, detailCalls := ticketListServer(t, pages, perPage)
	defer server.Close()

	client := newTestClient(server.URL, "key")
	tickets, err := client.Tickets().List(context.Background(), ListTicketsParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tickets) != pages*perPage {
		t.Fatalf("expected %d tickets, got %d", pages*perPage, len(tickets))
	}
	// The aggregate is the concatenation of all pages, in order.
	for i, ticket := range tickets {
		if ticket.DisplayID != i+1 {
			t.Errorf("ticket %d has display id %d, want %d", i, ticket.DisplayID, i+1)
		}
	}
	// One listing call per page plus the terminating empty page.
	if *listCalls != pages+1 {
		t.Errorf("list calls = %d, want %d", *listCalls, pages+1)
	}
	// Every listed summary is individually re-fetched.
	if *detailCalls != pages*perPage {
		t.Errorf("detail calls = %d, want %d", *detailCalls, pages*perPage)
	}
}

func TestListSummariesSkipsRefetch(t *testing.T) {
	server, _, detailCalls := ticketListServer(t, 2, 3)
	defer server.Close()

	client := newTestClient(server.URL, "key")
	summaries, err := client.Tickets().ListSummaries(context.Background(), ListTicketsParams{Filter: FilterNewMyOpen})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 6 {
		t.Errorf("expected 6 summaries, got %d", len(summaries))
	}
	if *detailCalls != 0 {
		t.Errorf("summaries must not re-fetch details, got %d calls", *detailCalls)
	}
}

func TestListTicketsFilterAndParams(t *testing.T) {
	var gotPath string
	var gotParams map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	_, err := client.Tickets().ListSummaries(context.Background(), ListTicketsParams{
		Filter: "my_custom_view",
		Params: map[string]string{"requester_id": "7"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/helpdesk/tickets/filter/my_custom_view.json" {
		t.Errorf("path = %q", gotPath)
	}
	if got := gotParams["requester_id"]; len(got) != 1 || got[0] != "7" {
		t.Errorf("requester_id param = %v, want [7]", got)
	}
}

func TestListTicketsPageLimit(t *testing.T) {
	// Server echoes a non-empty page forever.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_id": 1, "subject": "t", "status": 2, "priority": 1}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	client.PageLimit = 5
	_, err := client.Tickets().ListSummaries(context.Background(), ListTicketsParams{})
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("expected ErrTooManyPages, got %v", err)
	}
}

func TestKnownFilters(t *testing.T) {
	filters := KnownFilters()
	want := map[string]bool{"all_tickets": true, "new_my_open": true, "deleted": true, "spam": true}
	if len(filters) != len(want) {
		t.Fatalf("expected %d filters, got %v", len(want), filters)
	}
	for _, f := range filters {
		if !want[f] {
			t.Errorf("unexpected filter %q", f)
		}
	}
}
