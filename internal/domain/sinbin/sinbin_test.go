package sinbin_test

import (
	"testing"
	"time"

	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/sinbin"
	. "github.com/smartystreets/goconvey/convey"
)

func yellow(id, playerID string, returnTime int) event.Event {
	return event.Event{
		ID: id, Type: event.TypeCard, CreatedAt: time.Unix(1000, 0),
		Card: &event.Card{Side: event.Home, PlayerID: playerID, Severity: event.Yellow, ReturnTime: returnTime},
	}
}

func TestActive(t *testing.T) {
	Convey("Given a yellow card issued at elapsed 100", t, func() {
		evs := []event.Event{yellow("c1", "p5", 700)}

		Convey("Then the exclusion runs for [100, 700)", func() {
			So(sinbin.Active(evs, 100), ShouldHaveLength, 1)
			So(sinbin.Active(evs, 699), ShouldHaveLength, 1)
			So(sinbin.Active(evs, 700), ShouldBeEmpty)
			So(sinbin.Active(evs, 701), ShouldBeEmpty)
		})

		Convey("Then remaining seconds count down", func() {
			act := sinbin.Active(evs, 100)
			So(act[0].Remaining, ShouldEqual, 600)
			So(act[0].CardID, ShouldEqual, "c1")
			So(act[0].PlayerID, ShouldEqual, "p5")
			So(act[0].Warning, ShouldBeFalse)
		})

		Convey("Then the warning trips at sixty seconds remaining", func() {
			So(sinbin.Active(evs, 639)[0].Warning, ShouldBeFalse)
			So(sinbin.Active(evs, 640)[0].Warning, ShouldBeTrue)
			So(sinbin.Active(evs, 699)[0].Warning, ShouldBeTrue)
		})

		Convey("When the card is marked returned", func() {
			evs[0].Card.Returned = true
			So(sinbin.Active(evs, 200), ShouldBeEmpty)
		})
	})

	Convey("Given a red card", t, func() {
		evs := []event.Event{
			{
				ID: "c2", Type: event.TypeCard, CreatedAt: time.Unix(1000, 0),
				Card: &event.Card{Side: event.Away, PlayerID: "p9", Severity: event.Red},
			},
		}

		Convey("Then it never produces a timed exclusion", func() {
			So(sinbin.Active(evs, 0), ShouldBeEmpty)
			So(sinbin.Active(evs, 5000), ShouldBeEmpty)
		})
	})

	Convey("Given several concurrent yellows", t, func() {
		evs := []event.Event{
			yellow("c1", "p5", 700),
			yellow("c2", "p6", 900),
		}

		act := sinbin.Active(evs, 650)
		So(act, ShouldHaveLength, 2)
		So(act[0].Remaining, ShouldEqual, 50)
		So(act[1].Remaining, ShouldEqual, 250)
	})

	Convey("Given non-card events", t, func() {
		evs := []event.Event{
			{ID: "s1", Type: event.TypeSystem, System: &event.System{Marker: event.MatchStart}},
		}
		So(sinbin.Active(evs, 10), ShouldBeEmpty)
	})
}
