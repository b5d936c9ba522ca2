// Package refresh resynchronises the user data areas after an action that
// changes them, such as creating a reservation.
//
// Options choose among reservations, notifications, dashboard, payments and
// receipts. Every selected area with a registered Operation runs in its own
// goroutine; the Coordinator waits for all of them and returns one Outcome
// per area in dispatch order. One failing area never stops the others, and
// failures are logged instead of returned unless Options.Silent is set.
//
//	coord, err := refresh.New(userdata.Operations(client, store, userID))
//	outcomes, err := coord.Refresh(ctx, refresh.DefaultOptions())
//	for _, o := range refresh.Rejected(outcomes) {
//	    // o.Label, o.Err
//	}
package refresh
