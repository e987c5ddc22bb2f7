package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/adapters/saver"
	session "github.com/okian/scrum/internal/app"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/squad"
	"github.com/okian/scrum/pkg/logger"
)

// File permission constant for the snapshot export.
const snapshotFilePermission = 0600

// How long to wait for the async save pipeline to report.
const saveReportTimeout = 10 * time.Second

// Run plays one complete simulated match against the store and verifies
// the result. The same seed always produces the same match.
func Run(ctx context.Context, config *Config, store repository.MatchStore) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("simulate")

	log.Info(ctx, "starting match simulation",
		logger.Int("seed", int(config.Seed)),
		logger.Int("playsPerHalf", config.PlaysPerHalf),
		logger.Int("halfLength", config.HalfLengthSeconds))

	// Step 1: Build rosters and the session.
	rosters := map[event.Side][]squad.Player{
		event.Home: buildRoster("home"),
		event.Away: buildRoster("away"),
	}

	results := make(chan saver.Result, 1)
	saverOpts := []saver.Option{
		saver.WithResultCallback(func(r saver.Result) { results <- r }),
		saver.WithLogger(log),
	}
	if config.SaveQueueSize > 0 {
		saverOpts = append(saverOpts, saver.WithCapacity(config.SaveQueueSize))
	}
	if config.SaveRetries > 0 {
		saverOpts = append(saverOpts, saver.WithRetries(config.SaveRetries))
	}
	if config.SaveRetryDelay > 0 {
		saverOpts = append(saverOpts, saver.WithRetryDelay(config.SaveRetryDelay))
	}
	pipe := saver.New(store, saverOpts...)
	pipe.Start(ctx)
	defer func() {
		if err := pipe.Close(); err != nil {
			log.Warn(ctx, "save pipeline close failed", logger.Error(err))
		}
	}()

	s := session.New(
		repository.Team{ID: "sim-home", Name: "Home XV", Color: "#003366"},
		repository.Team{ID: "sim-away", Name: "Away XV", Color: "#990000"},
		session.WithHalfLength(config.HalfLengthSeconds),
		session.WithSinBinDuration(config.SinBinSeconds),
		session.WithInjuryIncrement(config.InjuryStepSeconds),
		session.WithSaver(pipe),
		session.WithLogger(log))
	s.SetPlayers(event.Home, rosters[event.Home])
	s.SetPlayers(event.Away, rosters[event.Away])

	// Step 2: Play both halves.
	gen := newGenerator(config.Seed, rosters, log, config.Verbose)
	if !s.Start(ctx) {
		return fmt.Errorf("session refused to start")
	}
	playHalf(ctx, s, gen, config, stats)

	if !s.NextHalf(ctx) {
		return fmt.Errorf("session refused half transition")
	}
	s.ToggleTimer()
	playHalf(ctx, s, gen, config, stats)

	// Step 3: End the match and wait for the persisted result.
	snap, ok := s.End(ctx)
	if !ok {
		return fmt.Errorf("session refused to end")
	}
	stats.EventsInLedger = len(snap.Log)

	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled waiting for save: %w", ctx.Err())
	case <-time.After(saveReportTimeout):
		return fmt.Errorf("save pipeline never reported")
	case r := <-results:
		if r.Err != nil {
			return fmt.Errorf("match save failed: %w", r.Err)
		}
		stats.MatchID = r.MatchID
	}

	// Step 4: Verify ledger consistency and the persisted round trip.
	if err := verifyMatch(ctx, config, store, stats.MatchID, snap); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	// Step 5: Optionally export the final snapshot.
	if config.OutputFile != "" {
		if err := saveSnapshotToFile(config.OutputFile, snap); err != nil {
			log.Warn(ctx, "failed to export snapshot", logger.Error(err))
		} else {
			log.Info(ctx, "snapshot exported", logger.String("file", config.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats, snap)

	return nil
}

// playHalf interleaves clock ticks with random plays until the half's
// play count is spent. Ticks are batched so cards open sin-bin windows
// at varied elapsed times.
func playHalf(ctx context.Context, s *session.Session, gen *generator, config *Config, stats *Stats) {
	ticksPerPlay := 1
	if config.PlaysPerHalf > 0 {
		ticksPerPlay = config.HalfLengthSeconds / config.PlaysPerHalf
	}
	if ticksPerPlay < 1 {
		ticksPerPlay = 1
	}

	for i := 0; i < config.PlaysPerHalf; i++ {
		if ctx.Err() != nil {
			return
		}
		for t := 0; t < ticksPerPlay; t++ {
			if !s.Tick() {
				// Regulation time ran out; restart the clock for
				// overtime and keep playing.
				s.ToggleTimer()
			}
		}
		gen.play(ctx, s, stats)
	}
}

// saveSnapshotToFile exports the final snapshot as indented JSON.
func saveSnapshotToFile(filename string, snap repository.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filename, data, snapshotFilePermission); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// displayFinalStats logs the simulation outcome.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats, snap repository.Snapshot) {
	log.Info(ctx, "simulation completed",
		logger.String("matchID", stats.MatchID),
		logger.Int("homeScore", snap.HomeScore),
		logger.Int("awayScore", snap.AwayScore),
		logger.Int("playsAttempted", stats.PlaysAttempted),
		logger.Int("playsRefused", stats.PlaysRefused),
		logger.Int("scoresRecorded", stats.ScoresRecorded),
		logger.Int("pendingResolved", stats.PendingResolved),
		logger.Int("cardsIssued", stats.CardsIssued),
		logger.Int("substitutions", stats.Substitutions),
		logger.Int("undos", stats.Undos),
		logger.Int("eventsInLedger", stats.EventsInLedger),
		logger.String("duration", stats.Duration.String()))
}
