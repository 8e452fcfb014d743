package utils

import (
	"testing"
	"time"
)

func TestEvaluateExpiration(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dateStr  string
		expected string
	}{
		// Window boundaries
		{"date in the past", "2024-05-15", ExpirationExpired},
		{"yesterday", "2024-05-31", ExpirationExpired},
		{"same day", "2024-06-01", ExpirationSoonToExpire},
		{"inside 30 day window", "2024-06-20", ExpirationSoonToExpire},
		{"exactly 30 days out", "2024-07-01", ExpirationSoonToExpire},
		{"31 days out", "2024-07-02", ExpirationValid},
		{"far future", "2024-09-01", ExpirationValid},

		// Lenient fallbacks
		{"empty string", "", ExpirationValid},
		{"out of range month and day", "2024-13-40", ExpirationValid},
		{"month zero", "2024-00-10", ExpirationValid},
		{"day zero", "2024-05-00", ExpirationValid},
		{"missing component", "2024-05", ExpirationValid},
		{"extra component", "2024-05-01-07", ExpirationValid},
		{"non numeric", "abcd-ef-gh", ExpirationValid},

		// Time suffix is ignored
		{"iso timestamp", "2024-05-15T00:00:00.000Z", ExpirationExpired},
		{"iso timestamp late in day", "2024-06-20T23:59:59Z", ExpirationSoonToExpire},

		// In-range but overflowing dates roll forward
		{"february 30 rolls to march", "2024-02-30", ExpirationExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := EvaluateExpiration(tt.dateStr, today)
			if status != tt.expected {
				t.Errorf("EvaluateExpiration(%q) = %q, expected %q", tt.dateStr, status, tt.expected)
			}
		})
	}
}

func TestEvaluateExpirationMessages(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	status, msg := EvaluateExpiration("2024-05-15", today)
	if status != ExpirationExpired {
		t.Fatalf("expected expired, got %q", status)
	}
	if msg != "The permit expired on 05/15/2024." {
		t.Errorf("unexpected expired message: %q", msg)
	}

	status, msg = EvaluateExpiration("2024-06-20", today)
	if status != ExpirationSoonToExpire {
		t.Fatalf("expected soon_to_expire, got %q", status)
	}
	if msg != "The permit expires on 06/20/2024 (soon to expire)." {
		t.Errorf("unexpected soon_to_expire message: %q", msg)
	}

	if _, msg = EvaluateExpiration("2024-09-01", today); msg != "" {
		t.Errorf("valid classification should carry no message, got %q", msg)
	}

	if _, msg = EvaluateExpiration("2024-13-40", today); msg != "" {
		t.Errorf("fallback classification should carry no message, got %q", msg)
	}
}

func TestEvaluateExpirationIgnoresTimeOfDay(t *testing.T) {
	// The reference time carries an hour; classification must match a
	// midnight reference.
	lateToday := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)

	status, _ := EvaluateExpiration("2024-06-01", lateToday)
	if status != ExpirationSoonToExpire {
		t.Errorf("same-day permit should be soon_to_expire, got %q", status)
	}

	status, _ = EvaluateExpiration("2024-07-01", lateToday)
	if status != ExpirationSoonToExpire {
		t.Errorf("30-day boundary should be soon_to_expire, got %q", status)
	}
}

func TestEvaluateExpirationIsPure(t *testing.T) {
	today := time.Date(2024, 6, 1, 12, 45, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		status, msg := EvaluateExpiration("2024-06-10", today)
		if status != ExpirationSoonToExpire || msg == "" {
			t.Fatalf("call %d diverged: status=%q msg=%q", i, status, msg)
		}
	}
}
