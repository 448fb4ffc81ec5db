package momo

import "testing"

func TestNormalizeShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload any
		want    Outcome
		final   bool
	}{
		{"bare string", "SUCCESSFUL", OutcomeSuccessful, true},
		{"lowercase string", "successful", OutcomeSuccessful, true},
		{"status field", map[string]any{"status": "FAILED"}, OutcomeFailed, true},
		{"payment nesting", map[string]any{"payment": map[string]any{"status": "REJECTED"}}, OutcomeRejected, true},
		{"data nesting", map[string]any{"data": map[string]any{"status": "CANCELLED"}}, OutcomeCancelled, true},
		{"result nesting", map[string]any{"result": map[string]any{"status": "TIMEOUT"}}, OutcomeTimedOut, true},
		{"array first element", []any{map[string]any{"status": "UNKNOWN"}}, OutcomeUnknown, true},
		{"declined maps to failed", map[string]any{"status": "declined"}, OutcomeFailed, true},
		{"error value", "ERROR", OutcomeError, true},
		{"pending is not final", map[string]any{"status": "PENDING"}, "", false},
		{"unrecognized string", "IN_PROGRESS", "", false},
		{"empty payload", nil, "", false},
		{"empty string", "", "", false},
		{"empty map", map[string]any{}, "", false},
		{"empty array", []any{}, "", false},
		{"non-string status", map[string]any{"status": 7}, "", false},
		{"raw text wrapper", map[string]any{"raw": "<html>oops</html>"}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, final := Normalize(tc.payload)
			if final != tc.final {
				t.Fatalf("final = %v, want %v", final, tc.final)
			}
			if got != tc.want {
				t.Fatalf("outcome = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	payload := map[string]any{"payment": map[string]any{"status": "SUCCESSFUL"}}
	first, firstOK := Normalize(payload)
	second, secondOK := Normalize(payload)
	if first != second || firstOK != secondOK {
		t.Fatalf("normalize not idempotent: (%q,%v) vs (%q,%v)", first, firstOK, second, secondOK)
	}
}

func TestNormalizeStatusFieldWinsOverNesting(t *testing.T) {
	payload := map[string]any{
		"status":  "SUCCESSFUL",
		"payment": map[string]any{"status": "FAILED"},
	}
	got, final := Normalize(payload)
	if !final || got != OutcomeSuccessful {
		t.Fatalf("expected direct status field to win, got %q final=%v", got, final)
	}
}
