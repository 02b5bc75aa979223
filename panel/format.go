package panel

import "time"

const (
	labelNoCourse = "Não definido"
	labelNoDate   = "N/A"
	dateLayout    = "02/01/2006"
)

// FormatDate renders an ISO enrollment date as dd/mm/yyyy. A nil or empty
// date is N/A; a value that does not parse is shown as received.
func FormatDate(iso *string) string {
	if iso == nil || *iso == "" {
		return labelNoDate
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *iso); err == nil {
			return t.Format(dateLayout)
		}
	}
	return *iso
}

// CourseLabel is the course name shown for a student, or "not set"
func CourseLabel(name *string) string {
	if name == nil || *name == "" {
		return labelNoCourse
	}
	return *name
}
