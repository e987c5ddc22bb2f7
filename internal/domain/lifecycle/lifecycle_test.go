package lifecycle_test

import (
	"testing"

	"github.com/okian/scrum/internal/domain/lifecycle"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClockTransitions(t *testing.T) {
	Convey("Given a fresh clock", t, func() {
		c := lifecycle.NewClock(2400, 60)
		So(c.State(), ShouldEqual, lifecycle.NotStarted)
		So(c.Half(), ShouldEqual, 1)

		Convey("Then only start is legal from not started", func() {
			So(c.Toggle(), ShouldBeFalse)
			So(c.NextHalf(), ShouldBeFalse)
			So(c.End(), ShouldBeFalse)
			So(c.AddInjuryTime(), ShouldBeFalse)
			So(c.Start(), ShouldBeTrue)
			So(c.State(), ShouldEqual, lifecycle.Running)
		})

		Convey("When started", func() {
			c.Start()

			Convey("Then starting again is a no-op", func() {
				So(c.Start(), ShouldBeFalse)
			})

			Convey("Then toggle flips running and paused", func() {
				So(c.Toggle(), ShouldBeTrue)
				So(c.State(), ShouldEqual, lifecycle.Paused)
				So(c.Toggle(), ShouldBeTrue)
				So(c.State(), ShouldEqual, lifecycle.Running)
			})

			Convey("Then next half parks the clock in the break", func() {
				So(c.NextHalf(), ShouldBeTrue)
				So(c.State(), ShouldEqual, lifecycle.HalfBreak)
				So(c.Half(), ShouldEqual, 2)

				Convey("And toggling resumes for the new half", func() {
					So(c.Toggle(), ShouldBeTrue)
					So(c.State(), ShouldEqual, lifecycle.Running)
				})
			})

			Convey("Then end is terminal", func() {
				So(c.End(), ShouldBeTrue)
				So(c.State(), ShouldEqual, lifecycle.Completed)
				So(c.Toggle(), ShouldBeFalse)
				So(c.Start(), ShouldBeFalse)
				So(c.NextHalf(), ShouldBeFalse)
				So(c.End(), ShouldBeFalse)
				So(c.AddInjuryTime(), ShouldBeFalse)
			})
		})
	})
}

func TestTick(t *testing.T) {
	Convey("Given a running clock with a three-second half", t, func() {
		c := lifecycle.NewClock(3, 60)
		c.Start()

		Convey("Then ticks advance one second at a time", func() {
			So(c.Tick(), ShouldBeTrue)
			So(c.Elapsed(), ShouldEqual, 1)
		})

		Convey("Then ticks while paused are gated, not queued", func() {
			c.Toggle()
			So(c.Tick(), ShouldBeFalse)
			So(c.Elapsed(), ShouldEqual, 0)
		})

		Convey("When elapsed first reaches the half length", func() {
			c.Tick()
			c.Tick()
			c.Tick()

			Convey("Then the clock auto-pauses exactly once", func() {
				So(c.State(), ShouldEqual, lifecycle.Paused)
				So(c.Elapsed(), ShouldEqual, 3)

				Convey("And resuming does not re-trigger the pause", func() {
					c.Toggle()
					So(c.Tick(), ShouldBeTrue)
					So(c.Tick(), ShouldBeTrue)
					So(c.State(), ShouldEqual, lifecycle.Running)
					So(c.Elapsed(), ShouldEqual, 5)
				})
			})
		})

		Convey("When a new half begins", func() {
			c.Tick()
			c.Tick()
			c.Tick()
			c.Toggle()
			c.NextHalf()

			Convey("Then elapsed and injury reset and the cap re-arms", func() {
				So(c.Elapsed(), ShouldEqual, 0)
				So(c.Injury(), ShouldEqual, 0)
				c.Toggle()
				c.Tick()
				c.Tick()
				c.Tick()
				So(c.State(), ShouldEqual, lifecycle.Paused)
			})
		})
	})
}

func TestInjuryTime(t *testing.T) {
	Convey("Given a running clock", t, func() {
		c := lifecycle.NewClock(2400, 60)
		c.Start()

		Convey("Then each call accrues one increment", func() {
			So(c.AddInjuryTime(), ShouldBeTrue)
			So(c.AddInjuryTime(), ShouldBeTrue)
			So(c.Injury(), ShouldEqual, 120)
		})

		Convey("Then accrual does not move the clock", func() {
			c.AddInjuryTime()
			So(c.Elapsed(), ShouldEqual, 0)
		})
	})
}

func TestDisplay(t *testing.T) {
	Convey("Given a clock with a 120-second half", t, func() {
		c := lifecycle.NewClock(120, 60)
		c.Start()

		Convey("Then regulation time renders without overtime", func() {
			for i := 0; i < 65; i++ {
				c.Tick()
			}
			main, over := c.Display()
			So(main, ShouldEqual, "01:05")
			So(over, ShouldEqual, "")
		})

		Convey("Then overtime is shown separately while elapsed keeps counting", func() {
			for i := 0; i < 120; i++ {
				c.Tick()
			}
			c.Toggle() // resume after the auto-pause
			for i := 0; i < 75; i++ {
				c.Tick()
			}
			So(c.Elapsed(), ShouldEqual, 195)
			main, over := c.Display()
			So(main, ShouldEqual, "02:00")
			So(over, ShouldEqual, "+01:15")
		})
	})
}
