package booking

// StartTimes returns every candidate start time in [opening, closing),
// stepping by Granularity. The grid does not filter end-of-day overflow;
// that is the availability check's job.
func StartTimes(opening, closing Clock) []Clock {
	var starts []Clock
	for t := opening; t < closing; t += Granularity {
		starts = append(starts, t)
	}
	return starts
}
