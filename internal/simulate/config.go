// Package simulate drives a scripted, seeded match against the public
// session API and verifies that every derived view stays consistent with
// the ledger, including the persisted round trip.
package simulate

import "time"

// Config holds configuration for a simulated match. Zero-valued save
// pipeline fields fall back to the pipeline's defaults.
type Config struct {
	Seed              int64         // Seed for the play generator; same seed, same match
	HalfLengthSeconds int           // Regulation half length in seconds
	SinBinSeconds     int           // Yellow-card exclusion window in seconds
	InjuryStepSeconds int           // Seconds added per injury-time accrual
	PlaysPerHalf      int           // Number of random plays attempted per half
	SaveQueueSize     int           // Capacity of the async save pipeline
	SaveRetries       int           // Retry attempts for a failed save
	SaveRetryDelay    time.Duration // Delay between save retries
	OutputFile        string        // Optional JSON file for the final snapshot
	Verbose           bool          // Enable verbose play-by-play logging
}

// Stats holds simulation statistics.
type Stats struct {
	PlaysAttempted  int
	PlaysRefused    int
	ScoresRecorded  int
	PendingResolved int
	CardsIssued     int
	Substitutions   int
	Undos           int
	EventsInLedger  int
	MatchID         string
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
