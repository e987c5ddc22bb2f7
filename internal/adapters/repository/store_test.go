package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/squad"
	"github.com/okian/scrum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func sampleSnapshot() repository.Snapshot {
	start := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	return repository.Snapshot{
		HomeTeam:            repository.Team{ID: "t-home", Name: "Harlequins", Color: "#1d3c6e"},
		AwayTeam:            repository.Team{ID: "t-away", Name: "Saracens", Color: "#0a0a0a"},
		HalfDurationMinutes: 40,
		SinBinSeconds:       600,
		HomeScore:           12,
		AwayScore:           7,
		CompletedAt:         start.Add(100 * time.Minute),
		Log: []event.Event{
			{ID: "e1", Type: event.TypeSystem, CreatedAt: start, Half: 1, System: &event.System{Marker: event.MatchStart}},
			{ID: "e2", Type: event.TypeScore, CreatedAt: start.Add(time.Minute), Half: 1, Elapsed: 60,
				Score: &event.Score{Side: event.Home, Kind: event.Try, Points: 5, PlayerID: "p7"}},
			{ID: "e3", Type: event.TypeScore, CreatedAt: start.Add(2 * time.Minute), Half: 1, Elapsed: 120,
				Score: &event.Score{Side: event.Home, Kind: event.Conversion, Points: 2, PlayerID: "p10"}},
			{ID: "e4", Type: event.TypeSystem, CreatedAt: start.Add(99 * time.Minute), Half: 2, System: &event.System{Marker: event.MatchEnd}},
		},
		PlayerIDs: []string{"p10", "p7"},
		Stats: []repository.PlayerStats{
			{PlayerID: "p7", Games: 1, Tries: 1, Points: 5},
			{PlayerID: "p10", Games: 1, Points: 2},
		},
	}
}

// stores under test share one behavioral contract.
func testMatchStore(store repository.MatchStore) func() {
	return func() {
		ctx := context.Background()

		Convey("When saving a snapshot without a match id", func() {
			id, err := store.SaveFinishedMatch(ctx, sampleSnapshot())
			So(err, ShouldBeNil)
			So(id, ShouldNotBeEmpty)

			Convey("Then the snapshot round-trips", func() {
				got, err := store.GetMatch(ctx, id)
				So(err, ShouldBeNil)
				So(got.HomeScore, ShouldEqual, 12)
				So(got.AwayScore, ShouldEqual, 7)
				So(got.HomeTeam.Name, ShouldEqual, "Harlequins")
				So(got.Log, ShouldHaveLength, 4)
				So(got.Log[1].Score.Kind, ShouldEqual, event.Try)
				So(got.Log[1].Score.PlayerID, ShouldEqual, "p7")
				So(got.PlayerIDs, ShouldResemble, []string{"p10", "p7"})
			})

			Convey("Then the per-match stat deltas round-trip", func() {
				got, err := store.GetMatch(ctx, id)
				So(err, ShouldBeNil)
				So(got.Stats, ShouldHaveLength, 2)

				byPlayer := make(map[string]repository.PlayerStats, len(got.Stats))
				for _, st := range got.Stats {
					byPlayer[st.PlayerID] = st
				}
				So(byPlayer["p7"], ShouldResemble, repository.PlayerStats{PlayerID: "p7", Games: 1, Tries: 1, Points: 5})
				So(byPlayer["p10"], ShouldResemble, repository.PlayerStats{PlayerID: "p10", Games: 1, Points: 2})
			})

			Convey("Then player stats were applied once", func() {
				st, err := store.PlayerStats(ctx, "p7")
				So(err, ShouldBeNil)
				So(st.Games, ShouldEqual, 1)
				So(st.Tries, ShouldEqual, 1)
				So(st.Points, ShouldEqual, 5)
			})

			Convey("When re-saving under the same id with corrected scores", func() {
				snap := sampleSnapshot()
				snap.MatchID = id
				snap.HomeScore = 19
				again, err := store.SaveFinishedMatch(ctx, snap)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, id)

				Convey("Then the record is replaced", func() {
					got, err := store.GetMatch(ctx, id)
					So(err, ShouldBeNil)
					So(got.HomeScore, ShouldEqual, 19)
				})

				Convey("Then stats are not double-counted", func() {
					st, err := store.PlayerStats(ctx, "p7")
					So(err, ShouldBeNil)
					So(st.Games, ShouldEqual, 1)
				})
			})

			Convey("Then the match shows up in listings", func() {
				matches, err := store.ListMatches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].ID, ShouldEqual, id)
				So(matches[0].AwayTeam, ShouldEqual, "Saracens")
			})
		})

		Convey("When saving an empty snapshot", func() {
			_, err := store.SaveFinishedMatch(ctx, repository.Snapshot{})
			So(errors.Is(err, repository.ErrEmptySnapshot), ShouldBeTrue)
		})

		Convey("When loading an unknown match", func() {
			_, err := store.GetMatch(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When reading stats for an unknown player", func() {
			_, err := store.PlayerStats(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	}
}

func TestMemoryStore(t *testing.T) {
	// The store is built inside the closure so each Convey leaf gets a
	// fresh one.
	Convey("Given an in-memory store", t, func() {
		testMatchStore(repository.NewMemoryStore())()
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a SQLite store", t, func() {
		store, err := repository.NewSQLiteStore(context.Background(), ":memory:", logger.Get())
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		testMatchStore(store)()
	})
}

func TestRoster(t *testing.T) {
	players := []squad.Player{
		{ID: "p1", Number: 1, Name: "Loosehead", Position: "prop", Starter: true},
		{ID: "p2", Number: 2, Name: "Hooker", Position: "hooker", Starter: true},
		{ID: "p16", Number: 16, Name: "Reserve", Position: "hooker"},
	}

	Convey("Given an in-memory roster", t, func() {
		store := repository.NewMemoryStore()
		for _, p := range players {
			store.AddPlayer("t-home", p)
		}
		testRoster(store)
	})

	Convey("Given a SQLite roster", t, func() {
		ctx := context.Background()
		store, err := repository.NewSQLiteStore(ctx, ":memory:", logger.Get())
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		So(store.UpsertTeam(ctx, repository.Team{ID: "t-home", Name: "Harlequins"}), ShouldBeNil)
		for _, p := range players {
			So(store.UpsertPlayer(ctx, "t-home", p), ShouldBeNil)
		}
		testRoster(store)
	})
}

func testRoster(roster repository.Roster) {
	ctx := context.Background()

	Convey("When listing the team", func() {
		got, err := roster.ListPlayers(ctx, "t-home")
		So(err, ShouldBeNil)
		So(got, ShouldHaveLength, 3)
		So(got[0].Number, ShouldEqual, 1)
		So(got[2].Number, ShouldEqual, 16)
		So(got[0].Starter, ShouldBeTrue)
		So(got[2].Starter, ShouldBeFalse)
	})

	Convey("When resolving a known player", func() {
		p, ok, err := roster.ResolvePlayer(ctx, "p2")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(p.Name, ShouldEqual, "Hooker")
	})

	Convey("When resolving an unknown player", func() {
		_, ok, err := roster.ResolvePlayer(ctx, "ghost")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})

	Convey("When listing an unknown team", func() {
		got, err := roster.ListPlayers(ctx, "t-none")
		So(err, ShouldBeNil)
		So(got, ShouldBeEmpty)
	})
}
