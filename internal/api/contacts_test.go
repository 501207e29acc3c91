package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestGetContact(t *testing.T) {
	tests := []struct {
		name         string
		responseBody string
		expectError  bool
		validateFunc func(*testing.T, *Contact)
	}{
		{
			name: "successful get with extra fields",
			responseBody: `{
				"user": {
					"id": 7,
					"name": "Rachel",
					"email": "rachel@example.com",
					"active": 1,
					"job_title": "Manager",
					"created_at": "2013-10-18T09:00:00+05:30",
					"updated_at": "2013-10-20T12:00:00+05:30"
				}
			}`,
			validateFunc: func(t *testing.T, contact *Contact) {
				if contact.ID != 7 {
					t.Errorf("ID = %d, want 7", contact.ID)
				}
				if contact.Name != "Rachel" {
					t.Errorf("Name = %q", contact.Name)
				}
				if !contact.Active.Bool() {
					t.Error("Active should be true for numeric 1")
				}
				// Undocumented fields land in the Extra bag.
				var jobTitle string
				if err := json.Unmarshal(contact.Extra["job_title"], &jobTitle); err != nil || jobTitle != "Manager" {
					t.Errorf("Extra[job_title] = %s", contact.Extra["job_title"])
				}
				if _, ok := contact.Extra["name"]; ok {
					t.Error("known fields must not duplicate into Extra")
				}
			},
		},
		{
			name:         "missing timestamps fail hydration",
			responseBody: `{"user": {"id": 7, "name": "Rachel", "email": "rachel@example.com"}}`,
			expectError:  true,
		},
		{
			name:         "unparseable timestamp fails hydration",
			responseBody: `{"user": {"id": 7, "name": "Rachel", "created_at": "not a date", "updated_at": "2013-10-20T12:00:00+05:30"}}`,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/contacts/7.json" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "key")
			contact, err := client.Contacts().Get(context.Background(), 7)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, contact)
			}
		})
	}
}

func TestCreateContactBodyIsExact(t *testing.T) {
	var gotBody map[string]map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Fatalf("request body is not the expected shape: %s", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user": {"id": 9, "name": "Niles", "email": "niles@example.com", "created_at": "2013-10-18T09:00:00+05:30", "updated_at": "2013-10-18T09:00:00+05:30"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	contact, err := client.Contacts().Create(context.Background(), "Niles", "niles@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly the fields passed, wrapped under the resource-type key.
	want := map[string]map[string]any{
		"user": {"name": "Niles", "email": "niles@example.com"},
	}
	if !reflect.DeepEqual(gotBody, want) {
		t.Errorf("request body = %v, want %v", gotBody, want)
	}
	if contact.ID != 9 {
		t.Errorf("contact ID = %d, want 9", contact.ID)
	}
}

func TestUpdateContactSendsOnlySetFields(t *testing.T) {
	var gotBody map[string]map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	// An explicitly set empty string is a real value, not "unchanged".
	empty := ""
	name := "Renamed"
	_, err := client.Contacts().Update(context.Background(), 7, UpdateContactOpts{
		Name:  &name,
		Phone: &empty,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]map[string]any{
		"user": {"name": "Renamed", "phone": ""},
	}
	if !reflect.DeepEqual(gotBody, want) {
		t.Errorf("request body = %v, want %v", gotBody, want)
	}
}

func TestDeleteContact(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "key")
	if err := client.Contacts().Delete(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if gotPath != "/contacts/7.json" {
		t.Errorf("path = %s", gotPath)
	}
}
