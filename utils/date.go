package utils

import "time"

const localDateLayout = "2006-01-02"

// LocalISODate formats t as YYYY-MM-DD in local time. History rows store
// dates in this fixed-width form so lexicographic order equals chronological
// order.
func LocalISODate(t time.Time) string {
	return t.Format(localDateLayout)
}

// TodayLocal is LocalISODate(now).
func TodayLocal() string {
	return LocalISODate(time.Now())
}

// ParseLocalDate parses a YYYY-MM-DD string as local midnight.
func ParseLocalDate(d string) (time.Time, error) {
	return time.ParseInLocation(localDateLayout, d, time.Local)
}

// DiffDays returns the whole-day difference a - b between two local date
// strings. Unparseable input counts as zero distance.
func DiffDays(a, b string) int {
	da, err := ParseLocalDate(a)
	if err != nil {
		return 0
	}
	db, err := ParseLocalDate(b)
	if err != nil {
		return 0
	}
	// Round, not truncate: DST shifts make some "days" 23 or 25 hours.
	hours := da.Sub(db).Hours()
	days := hours / 24
	if days >= 0 {
		return int(days + 0.5)
	}
	return int(days - 0.5)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampF bounds v to [lo, hi].
func ClampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
