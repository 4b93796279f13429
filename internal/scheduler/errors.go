package scheduler

import "errors"

// Sentinel kinds for scheduler errors.
var (
	ErrBadSchedule = errors.New("invalid cron schedule")
)
