package offerletter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-offerletter/internal/dateutil"
)

// ResolveDates expands "auto" date values of doc relative to now:
//   - "auto" is today
//   - "auto+14d" or "auto-3d" is today shifted by whole days
//   - "auto:FORMAT" is today in a custom layout (display only)
//
// Other values pass through unchanged.
func ResolveDates(doc Document, now time.Time) (Document, error) {
	out := doc.Clone()
	fields := []struct {
		name string
		ptr  *string
	}{
		{"date", &out.Date},
		{"startDate", &out.StartDate},
		{"acceptanceDeadline", &out.AcceptanceDeadline},
	}
	for _, f := range fields {
		v, err := resolveDate(*f.ptr, now)
		if err != nil {
			return doc, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.ptr = v
	}
	return out, nil
}

func resolveDate(value string, now time.Time) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(v, "auto+") || strings.HasPrefix(v, "auto-") {
		days, err := strconv.Atoi(strings.TrimSuffix(v[5:], "d"))
		if err != nil {
			return "", fmt.Errorf("%w: invalid day offset %q", dateutil.ErrInvalidDateFormat, value)
		}
		if v[4] == '-' {
			days = -days
		}
		return dateutil.ISO(now.AddDate(0, 0, days)), nil
	}
	return dateutil.ResolveDate(value, now)
}
