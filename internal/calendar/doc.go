// Package calendar provides a Google Calendar backed implementation of
// the scheduling core's backend interface.
//
// The client authenticates per account through the Google OAuth2 flow,
// targets a single calendar, and wraps every API call in a bounded retry
// loop so transient transport failures surface as a single sentinel error
// instead of leaking socket-level detail to callers.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListEvents(ctx, time.Now(), time.Now().AddDate(0, 0, 7))
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
