package domain

import "time"

// BucketLabels is the display order of the expiry histogram. It is fixed:
// empty buckets still appear, ERROR outcomes (no days-left) are not bucketed.
var BucketLabels = []string{
	"Expired",
	"0-7 days",
	"8-30 days",
	"31-90 days",
	"91-365 days",
	">365 days",
}

// BucketFor maps a days-left value to its histogram label.
func BucketFor(daysLeft int) string {
	switch {
	case daysLeft <= 0:
		return "Expired"
	case daysLeft <= 7:
		return "0-7 days"
	case daysLeft <= 30:
		return "8-30 days"
	case daysLeft <= 90:
		return "31-90 days"
	case daysLeft <= 365:
		return "91-365 days"
	default:
		return ">365 days"
	}
}

// DaysUntil returns the whole days from now until t, floored toward negative
// infinity: a certificate 12 hours past expiry is -1 day, not 0. Flooring
// keeps classification near the warn boundary consistent for expired certs.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
