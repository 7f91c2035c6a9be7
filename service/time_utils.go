package service

import (
	"time"
)

// LocalMidnight returns the most recent midnight before now in the given
// zone. Daily reward eligibility resets at this boundary.
func LocalMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// NextLocalMidnight returns the next midnight after now in the given zone
func NextLocalMidnight(now time.Time, loc *time.Location) time.Time {
	return LocalMidnight(now, loc).AddDate(0, 0, 1)
}

// ClaimedToday reports whether lastClaim falls on or after the most recent
// local midnight, i.e. the daily reward was already taken today.
func ClaimedToday(lastClaim *time.Time, now time.Time, loc *time.Location) bool {
	if lastClaim == nil {
		return false
	}
	return !lastClaim.In(loc).Before(LocalMidnight(now, loc))
}
