package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

const topicJSON = `{
	"topic": {
		"id": 3,
		"forum_id": 2,
		"title": "Feature request: dark mode",
		"sticky": %s,
		"locked": %s,
		"stamp_type": %d,
		"posts": [
			{"id": 31, "topic_id": 3, "body": "Please add dark mode", "body_html": "<p>Please add dark mode</p>", "created_at": "2013-10-18T09:00:00+05:30", "updated_at": "2013-10-18T09:00:00+05:30"}
		],
		"created_at": "2013-10-18T09:00:00+05:30",
		"updated_at": "2013-10-20T12:00:00+05:30"
	}
}`

func TestGetTopicFlagCoercion(t *testing.T) {
	// Sticky/locked arrive as 0/1 from some endpoints and true/false from
	// others; both must come out as booleans.
	tests := []struct {
		name       string
		sticky     string
		locked     string
		wantSticky bool
		wantLocked bool
	}{
		{"numeric flags", "1", "0", true, false},
		{"boolean flags", "true", "false", true, false},
		{"mixed flags", "0", "true", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(fmt.Sprintf(topicJSON, tt.sticky, tt.locked, 1)))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "key")
			topic, err := client.Topics().Get(context.Background(), 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if topic.Sticky.Bool() != tt.wantSticky {
				t.Errorf("Sticky = %v, want %v", topic.Sticky.Bool(), tt.wantSticky)
			}
			if topic.Locked.Bool() != tt.wantLocked {
				t.Errorf("Locked = %v, want %v", topic.Locked.Bool(), tt.wantLocked)
			}
		})
	}
}

func TestTopicStampType(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1, "planned"},
		{6, "answered"},
		{9, "unsolved"},
		{12, "stamp_type_12"},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(fmt.Sprintf(topicJSON, "false", "false", tt.code)))
		}))

		client := newTestClient(server.URL, "key")
		topic, err := client.Topics().Get(context.Background(), 3)
		server.Close()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := topic.StampType(); got != tt.want {
			t.Errorf("StampType() for code %d = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTopicPostsMaterializedAtHydration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fmt.Sprintf(topicJSON, "false", "false", 1)))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	topic, err := client.Topics().Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(topic.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(topic.Posts))
	}
	if topic.Posts[0].Body != "Please add dark mode" {
		t.Errorf("post body = %q", topic.Posts[0].Body)
	}
	if topic.Posts[0].TopicID != 3 {
		t.Errorf("post topic id = %d, want 3", topic.Posts[0].TopicID)
	}
}

func TestCreateTopicBody(t *testing.T) {
	var gotBody map[string]map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discussions/topics.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fmt.Sprintf(topicJSON, "true", "false", 1)))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	topic, err := client.Topics().Create(context.Background(), 2, "Feature request: dark mode", "<p>Please</p>", true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]map[string]any{
		"topic": {
			"forum_id":  float64(2),
			"title":     "Feature request: dark mode",
			"body_html": "<p>Please</p>",
			"sticky":    true,
			"locked":    false,
		},
	}
	if !reflect.DeepEqual(gotBody, want) {
		t.Errorf("request body = %v, want %v", gotBody, want)
	}
	if topic.ID != 3 {
		t.Errorf("topic ID = %d, want 3", topic.ID)
	}
}

func TestUpdateTopicMergesOverCurrentValues(t *testing.T) {
	var gotPut map[string]map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/discussions/topics/3.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(fmt.Sprintf(topicJSON, "true", "false", 1)))
		case http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &gotPut)
			_, _ = w.Write([]byte(`{"ok": true}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL, "key")
	// Sticky is explicitly set to false; title and body are left alone.
	sticky := false
	raw, err := client.Topics().Update(context.Background(), 3, UpdateTopicOpts{Sticky: &sticky})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]map[string]any{
		"topic": {
			"title":     "Feature request: dark mode",
			"body_html": "<p>Please add dark mode</p>",
			"sticky":    false,
			"locked":    false,
		},
	}
	if !reflect.DeepEqual(gotPut, want) {
		t.Errorf("PUT body = %v, want %v", gotPut, want)
	}

	// Update hands back the raw server response.
	var resp map[string]bool
	if err := json.Unmarshal(raw, &resp); err != nil || !resp["ok"] {
		t.Errorf("raw response = %s", raw)
	}
}

func TestDeleteTopic(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	if err := client.Topics().Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
}
