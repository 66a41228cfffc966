package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Africa/Accra")
	if err != nil {
		panic(err)
	}
}

// ledgers are kept per service week, so every timestamp we record is taken
// in the congregation's timezone rather than the server's
func Now() time.Time {
	return time.Now().In(Location)
}

// GetCurrentWeek returns the Sunday that starts the service week containing
// now and the Saturday that ends it, both at midnight in now's location.
func GetCurrentWeek(now time.Time) (start time.Time, stop time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = midnight.AddDate(0, 0, -int(midnight.Weekday()))
	stop = start.AddDate(0, 0, 6)
	return start, stop
}
