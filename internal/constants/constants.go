package constants

import "time"

const (
	// ClientSignatureGracePeriod is how long after a contract's start
	// date the client has to sign before the sweeper cancels it.
	ClientSignatureGracePeriod = 24 * time.Hour

	// ExpirySweepSchedule runs the sweep at the top of every hour.
	ExpirySweepSchedule = "0 * * * *"

	DefaultPageSize = 50
	MaxPageSize     = 200
)
