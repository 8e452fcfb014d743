package utils

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// Expiration classifications for a permit relative to a reference day.
const (
	ExpirationValid        = "valid"
	ExpirationSoonToExpire = "soon_to_expire"
	ExpirationExpired      = "expired"
)

// Days ahead of the reference day that still count as "soon to expire".
const expirationLookaheadDays = 30

// EvaluateExpiration classifies a permit expiration date against today.
// dateStr is the YYYY-MM-DD string as filed (a trailing time component after
// 'T' is ignored). Both dates are truncated to midnight before comparison so
// time-of-day never skews the result.
//
// Malformed input never fails the caller: a wrong component count or an
// out-of-range month/day logs a warning and degrades to "valid" with an
// empty message. A well-formed but overflowing day (e.g. 2023-02-30) rolls
// forward the way the intake forms have always been interpreted.
//
// The function is pure: the same (dateStr, today) pair always yields the
// same classification.
func EvaluateExpiration(dateStr string, today time.Time) (status, message string) {
	if dateStr == "" {
		return ExpirationValid, ""
	}

	datePart, _, _ := strings.Cut(dateStr, "T")
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		log.Printf("[PERMIT] invalid expiration date format: %q", dateStr)
		return ExpirationValid, ""
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		log.Printf("[PERMIT] invalid expiration date format: %q", dateStr)
		return ExpirationValid, ""
	}

	expDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch {
	case expDate.Before(ref):
		return ExpirationExpired,
			fmt.Sprintf("The permit expired on %s.", expDate.Format("01/02/2006"))
	case !expDate.After(ref.AddDate(0, 0, expirationLookaheadDays)):
		return ExpirationSoonToExpire,
			fmt.Sprintf("The permit expires on %s (soon to expire).", expDate.Format("01/02/2006"))
	}
	return ExpirationValid, ""
}
