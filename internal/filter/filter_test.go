package filter

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeExpression(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`.status \!= "open"`, `.status != "open"`},
		{`.deleted`, `.deleted`},
		{`select(.a \!= 1)`, `select(.a != 1)`},
	}
	for _, tt := range tests {
		if got := NormalizeExpression(tt.input); got != tt.want {
			t.Errorf("NormalizeExpression(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	data := map[string]interface{}{
		"subject": "Printer on fire",
		"status":  "open",
		"notes":   []interface{}{map[string]interface{}{"body": "a"}, map[string]interface{}{"body": "b"}},
	}

	t.Run("empty expression passes through", func(t *testing.T) {
		got, err := Apply(data, "")
		if err != nil {
			t.Fatalf("Apply error: %v", err)
		}
		if !reflect.DeepEqual(got, data) {
			t.Errorf("empty expression should return input unchanged")
		}
	})

	t.Run("single result collapses", func(t *testing.T) {
		got, err := Apply(data, ".subject")
		if err != nil {
			t.Fatalf("Apply error: %v", err)
		}
		if got != "Printer on fire" {
			t.Errorf("Apply(.subject) = %v", got)
		}
	})

	t.Run("multiple results stay a slice", func(t *testing.T) {
		got, err := Apply(data, ".notes[].body")
		if err != nil {
			t.Fatalf("Apply error: %v", err)
		}
		want := []interface{}{"a", "b"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Apply = %v, want %v", got, want)
		}
	})

	t.Run("invalid expression errors", func(t *testing.T) {
		if _, err := Apply(data, ".[[["); err == nil {
			t.Error("invalid expression should error")
		}
	})
}

func TestApplyItemsFallback(t *testing.T) {
	wrapped := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"display_id": 1.0, "status": "open"},
			map[string]interface{}{"display_id": 2.0, "status": "closed"},
		},
	}
	got, err := Apply(wrapped, `.[] | select(.status == "open") | .display_id`)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if got != 1.0 {
		t.Errorf("fallback query = %v, want 1", got)
	}
}

func TestApplyToJSON(t *testing.T) {
	input := []byte(`{"tickets":[{"id":1},{"id":2}]}`)
	out, err := ApplyToJSON(input, ".tickets | length")
	if err != nil {
		t.Fatalf("ApplyToJSON error: %v", err)
	}
	var n int
	if err := json.Unmarshal(out, &n); err != nil || n != 2 {
		t.Errorf("ApplyToJSON = %s, want 2", out)
	}

	same, err := ApplyToJSON(input, "")
	if err != nil || string(same) != string(input) {
		t.Errorf("empty expression should pass bytes through, got %s (%v)", same, err)
	}

	if _, err := ApplyToJSON([]byte(`{not json`), ".x"); err == nil {
		t.Error("invalid JSON should error")
	}
}
