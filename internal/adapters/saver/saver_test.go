package saver_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/adapters/saver"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// flakyStore fails a configured number of times before succeeding.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	attempts int
	saved    []repository.Snapshot
}

func (f *flakyStore) SaveFinishedMatch(ctx context.Context, snap repository.Snapshot) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return "", errors.New("disk on fire")
	}
	f.saved = append(f.saved, snap)
	return "m-1", nil
}

func (f *flakyStore) GetMatch(ctx context.Context, id string) (repository.Snapshot, error) {
	return repository.Snapshot{}, repository.ErrNotFound
}

func (f *flakyStore) ListMatches(ctx context.Context) ([]repository.MatchSummary, error) {
	return nil, nil
}

func (f *flakyStore) PlayerStats(ctx context.Context, playerID string) (repository.PlayerStats, error) {
	return repository.PlayerStats{}, repository.ErrNotFound
}

func snapshot() repository.Snapshot {
	return repository.Snapshot{
		Log: []event.Event{
			{ID: "e1", Type: event.TypeSystem, System: &event.System{Marker: event.MatchStart}},
		},
	}
}

func waitFor(results <-chan saver.Result) (saver.Result, bool) {
	select {
	case r := <-results:
		return r, true
	case <-time.After(5 * time.Second):
		return saver.Result{}, false
	}
}

func TestPipelineSave(t *testing.T) {
	Convey("Given a pipeline over a healthy store", t, func() {
		store := &flakyStore{}
		results := make(chan saver.Result, 1)
		p := saver.New(store,
			saver.WithCapacity(4),
			saver.WithRetryDelay(10*time.Millisecond),
			saver.WithResultCallback(func(r saver.Result) { results <- r }),
		)
		p.Start(context.Background())
		defer func() { _ = p.Close() }()

		Convey("When enqueuing a snapshot", func() {
			So(p.Enqueue(context.Background(), snapshot()), ShouldBeTrue)

			Convey("Then the save completes with a match id", func() {
				r, ok := waitFor(results)
				So(ok, ShouldBeTrue)
				So(r.Err, ShouldBeNil)
				So(r.MatchID, ShouldEqual, "m-1")
			})
		})
	})

	Convey("Given a store that fails twice before succeeding", t, func() {
		store := &flakyStore{failures: 2}
		results := make(chan saver.Result, 1)
		p := saver.New(store,
			saver.WithRetries(3),
			saver.WithRetryDelay(5*time.Millisecond),
			saver.WithResultCallback(func(r saver.Result) { results <- r }),
		)
		p.Start(context.Background())
		defer func() { _ = p.Close() }()

		Convey("When enqueuing a snapshot", func() {
			So(p.Enqueue(context.Background(), snapshot()), ShouldBeTrue)

			Convey("Then retries eventually succeed", func() {
				r, ok := waitFor(results)
				So(ok, ShouldBeTrue)
				So(r.Err, ShouldBeNil)
				So(r.MatchID, ShouldEqual, "m-1")
			})
		})
	})

	Convey("Given a store that never succeeds", t, func() {
		store := &flakyStore{failures: 1000}
		results := make(chan saver.Result, 1)
		p := saver.New(store,
			saver.WithRetries(1),
			saver.WithRetryDelay(5*time.Millisecond),
			saver.WithResultCallback(func(r saver.Result) { results <- r }),
		)
		p.Start(context.Background())
		defer func() { _ = p.Close() }()

		Convey("When enqueuing a snapshot", func() {
			So(p.Enqueue(context.Background(), snapshot()), ShouldBeTrue)

			Convey("Then the failure is surfaced, not swallowed", func() {
				r, ok := waitFor(results)
				So(ok, ShouldBeTrue)
				So(r.Err, ShouldNotBeNil)
				So(r.MatchID, ShouldEqual, "")
			})
		})
	})
}

func TestPipelineClose(t *testing.T) {
	Convey("Given a started pipeline", t, func() {
		store := &flakyStore{}
		p := saver.New(store, saver.WithRetryDelay(time.Millisecond))
		p.Start(context.Background())

		Convey("When closing it", func() {
			So(p.Close(), ShouldBeNil)

			Convey("Then closing again is a no-op", func() {
				So(p.Close(), ShouldBeNil)
			})

			Convey("Then enqueue is refused", func() {
				So(p.Enqueue(context.Background(), snapshot()), ShouldBeFalse)
			})
		})
	})

	Convey("Given a pipeline with queued work", t, func() {
		store := &flakyStore{}
		results := make(chan saver.Result, 4)
		p := saver.New(store,
			saver.WithCapacity(4),
			saver.WithResultCallback(func(r saver.Result) { results <- r }),
		)
		p.Start(context.Background())

		for i := 0; i < 3; i++ {
			So(p.Enqueue(context.Background(), snapshot()), ShouldBeTrue)
		}

		Convey("When closing, queued saves drain first", func() {
			So(p.Close(), ShouldBeNil)
			So(len(results), ShouldEqual, 3)
		})
	})
}
