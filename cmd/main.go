package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/config"
	"github.com/okian/scrum/internal/simulate"
	"github.com/okian/scrum/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default number of random plays per simulated half.
const defaultPlaysPerHalf = 40

func main() {
	var (
		listMatches = flag.Bool("list", false, "List saved matches and exit")
		replayID    = flag.String("replay", "", "Print the event log of a saved match and exit")
		playerID    = flag.String("player", "", "Print accumulated stats for a player and exit")
		plays       = flag.Int("plays", defaultPlaysPerHalf, "Random plays per half in the simulated match")
		output      = flag.String("output", "", "Output file for the final match snapshot")
		verbose     = flag.Bool("verbose", false, "Enable play-by-play logging")
	)
	flag.Parse()

	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	store, closeStore, err := openStore(ctx, cfg, loggerInstance)
	if err != nil {
		os.Stderr.WriteString("failed to open match store: " + err.Error() + "\n")
		return
	}
	defer closeStore()

	switch {
	case *listMatches:
		err = printMatches(ctx, store)
	case *replayID != "":
		err = printReplay(ctx, store, *replayID)
	case *playerID != "":
		err = printPlayerStats(ctx, store, *playerID)
	default:
		err = simulate.Run(ctx, simConfig(cfg, *plays, *output, *verbose), store)
	}
	if err != nil {
		os.Stderr.WriteString("command failed: " + err.Error() + "\n")
	}
}

// simConfig maps the loaded configuration onto the simulator, so the
// half/sin-bin/injury and save-pipeline settings honor env overrides.
func simConfig(cfg *config.Config, plays int, output string, verbose bool) *simulate.Config {
	return &simulate.Config{
		Seed:              cfg.SimSeed,
		HalfLengthSeconds: cfg.HalfDurationSeconds(),
		SinBinSeconds:     cfg.SinBinSeconds,
		InjuryStepSeconds: cfg.InjuryIncrementSeconds,
		PlaysPerHalf:      plays,
		SaveQueueSize:     cfg.SaveQueueSize,
		SaveRetries:       cfg.SaveRetries,
		SaveRetryDelay:    time.Duration(cfg.SaveRetryDelayMS) * time.Millisecond,
		OutputFile:        output,
		Verbose:           verbose,
	}
}

// openStore selects SQLite when a database path is configured and the
// in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.MatchStore, func(), error) {
	if cfg.DBPath == "" {
		log.Info(ctx, "no db_path configured; using in-memory store")
		return repository.NewMemoryStore(), func() {}, nil
	}

	store, err := repository.NewSQLiteStore(ctx, cfg.DBPath, log.Named("repository"))
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "failed to close match store", logger.Error(err))
		}
	}, nil
}

// printMatches writes the saved-match listing, newest first.
func printMatches(ctx context.Context, store repository.MatchStore) error {
	matches, err := store.ListMatches(ctx)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no saved matches")
		return nil
	}

	for _, m := range matches {
		fmt.Printf("%s  %s %d - %d %s  (%s)\n",
			m.ID, m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam,
			m.CompletedAt.Format(time.RFC3339))
	}
	return nil
}

// printReplay writes the full chronological log of one saved match.
func printReplay(ctx context.Context, store repository.MatchStore, id string) error {
	snap, err := store.GetMatch(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s %d - %d %s\n\n", snap.HomeTeam.Name, snap.HomeScore, snap.AwayScore, snap.AwayTeam.Name)
	for _, e := range snap.Log {
		line := fmt.Sprintf("[H%d %02d:%02d] %s", e.Half, e.Elapsed/60, e.Elapsed%60, e.Type)
		switch {
		case e.Score != nil:
			line += fmt.Sprintf(" %s %s +%d (%s)", e.Score.Side, e.Score.Kind, e.Score.Points, e.Score.PlayerID)
		case e.Card != nil:
			line += fmt.Sprintf(" %s %s %s", e.Card.Side, e.Card.Severity, e.Card.PlayerID)
		case e.Substitution != nil:
			line += fmt.Sprintf(" %s %s -> %s", e.Substitution.Side, e.Substitution.OffID, e.Substitution.OnID)
		case e.CardReturn != nil:
			line += fmt.Sprintf(" %s %s returns", e.CardReturn.Side, e.CardReturn.PlayerID)
		case e.System != nil:
			line += " " + string(e.System.Marker)
		}
		fmt.Println(line)
	}
	return nil
}

// printPlayerStats writes the accumulated stats row for one player.
func printPlayerStats(ctx context.Context, store repository.MatchStore, id string) error {
	stats, err := store.PlayerStats(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s: games=%d tries=%d points=%d yellow=%d red=%d\n",
		stats.PlayerID, stats.Games, stats.Tries, stats.Points, stats.YellowCards, stats.RedCards)
	return nil
}
