package refresh

// Area is one independently refreshable slice of user data.
type Area string

const (
	AreaReservations  Area = "reservations"
	AreaNotifications Area = "notifications"
	AreaDashboard     Area = "dashboard"
	AreaPayments      Area = "payments"
	AreaReceipts      Area = "receipts"
)

// Areas lists every area in dispatch order.
func Areas() []Area {
	return []Area{AreaReservations, AreaNotifications, AreaDashboard, AreaPayments, AreaReceipts}
}

// Label is the human readable name used in diagnostics.
func (a Area) Label() string {
	switch a {
	case AreaReservations:
		return "Reservations"
	case AreaNotifications:
		return "Notifications"
	case AreaDashboard:
		return "Dashboard"
	case AreaPayments:
		return "Payments"
	case AreaReceipts:
		return "Receipts"
	}
	return string(a)
}

// Options selects the areas to refresh. Areas are opted out, so the zero
// value refreshes everything.
type Options struct {
	SkipReservations  bool
	SkipNotifications bool
	SkipDashboard     bool
	SkipPayments      bool
	SkipReceipts      bool
	// Silent suppresses per-area failure logs.
	Silent bool
}

// DefaultOptions selects every area.
func DefaultOptions() Options {
	return Options{}
}

// Only selects the given areas and skips the rest. Only() selects nothing.
func Only(areas ...Area) Options {
	o := Options{
		SkipReservations:  true,
		SkipNotifications: true,
		SkipDashboard:     true,
		SkipPayments:      true,
		SkipReceipts:      true,
	}
	for _, a := range areas {
		switch a {
		case AreaReservations:
			o.SkipReservations = false
		case AreaNotifications:
			o.SkipNotifications = false
		case AreaDashboard:
			o.SkipDashboard = false
		case AreaPayments:
			o.SkipPayments = false
		case AreaReceipts:
			o.SkipReceipts = false
		}
	}
	return o
}

// Selected returns the areas not skipped, in dispatch order.
func (o Options) Selected() []Area {
	skip := [...]bool{
		o.SkipReservations,
		o.SkipNotifications,
		o.SkipDashboard,
		o.SkipPayments,
		o.SkipReceipts,
	}

	var out []Area
	for i, a := range Areas() {
		if !skip[i] {
			out = append(out, a)
		}
	}
	return out
}
