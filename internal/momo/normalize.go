package momo

import "strings"

// Outcome is the engine's closed set of terminal payment states. A provider
// status outside the recognized vocabulary is not an Outcome; it means the
// payment is still pending and polling should continue.
type Outcome string

const (
	OutcomeSuccessful Outcome = "SUCCESSFUL"
	OutcomeFailed     Outcome = "FAILED"
	OutcomeRejected   Outcome = "REJECTED"
	OutcomeCancelled  Outcome = "CANCELLED"
	OutcomeTimedOut   Outcome = "TIMEOUT"
	OutcomeUnknown    Outcome = "UNKNOWN"
	OutcomeError      Outcome = "ERROR"
)

// Successful reports whether the outcome allows a ledger credit. Every other
// recognized terminal value is failure-class.
func (o Outcome) Successful() bool {
	return o == OutcomeSuccessful
}

// Normalize maps an arbitrary provider status payload to a terminal Outcome.
// The second return value is false when the payload carries no recognized
// final status: unrecognized shapes and empty payloads are not errors here,
// they defer the decision to the poller's deadline.
func Normalize(payload any) (Outcome, bool) {
	status, ok := statusValue(payload)
	if !ok {
		return "", false
	}
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESSFUL":
		return OutcomeSuccessful, true
	case "FAILED", "DECLINED":
		return OutcomeFailed, true
	case "REJECTED":
		return OutcomeRejected, true
	case "CANCELLED":
		return OutcomeCancelled, true
	case "TIMEOUT":
		return OutcomeTimedOut, true
	case "UNKNOWN":
		return OutcomeUnknown, true
	case "ERROR":
		return OutcomeError, true
	}
	return "", false
}

// statusValue digs the status string out of the payload shapes the provider
// is known to return: a bare string, {status}, {payment: {status}},
// {data: {status}}, [{status}, ...] and {result: {status}}, in that order.
func statusValue(payload any) (string, bool) {
	switch v := payload.(type) {
	case string:
		if v != "" {
			return v, true
		}
	case map[string]any:
		if s, ok := stringField(v, "status"); ok {
			return s, true
		}
		for _, key := range []string{"payment", "data", "result"} {
			if nested, ok := v[key].(map[string]any); ok {
				if s, ok := stringField(nested, "status"); ok {
					return s, true
				}
			}
		}
	case []any:
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				return stringField(first, "status")
			}
		}
	}
	return "", false
}

func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
