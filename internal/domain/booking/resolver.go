package booking

// ===============================
// Availability Resolver
// ===============================

const (
	StatusAvailable    = "Available"
	StatusNotAvailable = "Not Available"
)

// DayConfig is a business's configuration for one weekday.
type DayConfig struct {
	Status string
	Hours  Interval
	Breaks []Interval
}

// StaffDayConfig is one team member's configuration for one weekday.
// Hours and Breaks are overrides; when Hours is nil the member inherits the
// business window and business breaks.
type StaffDayConfig struct {
	Status string
	Hours  *Interval
	Breaks []Interval
}

// Resolution is the effective availability for a (business, staff, date)
// triple: either closed, or an open window with the breaks to exclude.
// Breaks are clipped to the window and sorted.
type Resolution struct {
	Open   bool
	Window Interval
	Breaks []Interval
}

var Closed = Resolution{}

// Resolve combines the business day with an optional staff day. A business
// day that is not Available closes the whole day; a staff day that is not
// Available closes it for that member even when the business is open. A nil
// staff argument resolves business-level availability only.
func Resolve(day DayConfig, staff *StaffDayConfig) Resolution {
	if day.Status != StatusAvailable {
		return Closed
	}
	if staff != nil && staff.Status != StatusAvailable {
		return Closed
	}

	window := day.Hours
	breaks := day.Breaks
	if staff != nil && staff.Hours != nil {
		window = *staff.Hours
		breaks = staff.Breaks
	}

	clipped := make([]Interval, 0, len(breaks))
	for _, b := range breaks {
		if c, ok := b.Clip(window); ok {
			clipped = append(clipped, c)
		}
	}

	return Resolution{Open: true, Window: window, Breaks: clipped}
}
