package calendar

// Labels looks up localized day and month names by numeric index.
// Weekday indices run 0–6 starting on Sunday; month indices run 0–11.
type Labels interface {
	Weekday(i int) string
	Month(i int) string
}

// Table is a fixed Labels lookup.
type Table struct {
	Weekdays [7]string
	Months   [12]string
}

const unknownLabel = "Unknown"

func (t Table) Weekday(i int) string {
	if i < 0 || i >= len(t.Weekdays) || t.Weekdays[i] == "" {
		return unknownLabel
	}
	return t.Weekdays[i]
}

func (t Table) Month(i int) string {
	if i < 0 || i >= len(t.Months) || t.Months[i] == "" {
		return unknownLabel
	}
	return t.Months[i]
}

// English is the default label table.
var English = Table{
	Weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Months: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
}
