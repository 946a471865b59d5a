package smoketest

import (
	"context"
	"testing"

	"github.com/okian/evsig/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestGenerateCases(t *testing.T) {
	Convey("Given a smoke test configuration", t, func() {
		cfg := &Config{
			NumCases:      40,
			Rate:          10,
			TMax:          1.0,
			BurstFraction: 0.25,
			BurstCount:    6,
			Seed:          3,
		}

		Convey("When cases are generated", func() {
			var st Stats
			cases, err := generateCases(context.Background(), cfg, &st)
			So(err, ShouldBeNil)
			So(cases, ShouldHaveLength, 40)
			So(st.CasesGenerated, ShouldEqual, 40)

			Convey("Then about a quarter of them carry a burst", func() {
				burst := 0
				for _, c := range cases {
					if c.Burst {
						burst++
					}
				}
				So(burst, ShouldEqual, 10)
			})

			Convey("Then every train is strictly ascending", func() {
				for _, c := range cases {
					for i := 1; i < len(c.Events); i++ {
						So(c.Events[i], ShouldBeGreaterThan, c.Events[i-1])
					}
				}
			})

			Convey("Then burst trains contain the injected events", func() {
				for _, c := range cases {
					if c.Burst {
						So(len(c.Events), ShouldBeGreaterThanOrEqualTo, cfg.BurstCount)
					}
				}
			})

			Convey("Then every case has a unique ID", func() {
				seen := make(map[string]bool, len(cases))
				for _, c := range cases {
					So(seen[c.ID], ShouldBeFalse)
					seen[c.ID] = true
				}
			})
		})

		Convey("When generation runs twice with the same seed", func() {
			var s1, s2 Stats
			c1, err1 := generateCases(context.Background(), cfg, &s1)
			c2, err2 := generateCases(context.Background(), cfg, &s2)
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			for i := range c1 {
				So(c2[i].Events, ShouldResemble, c1[i].Events)
			}
		})
	})
}

func TestInjectBurst(t *testing.T) {
	Convey("Given a background train", t, func() {
		background := []float64{0.004, 0.007, 0.5}

		Convey("When a burst is injected", func() {
			merged := injectBurst(background, 3)
			So(merged, ShouldHaveLength, 6)

			Convey("Then the result is strictly ascending", func() {
				for i := 1; i < len(merged); i++ {
					So(merged[i], ShouldBeGreaterThan, merged[i-1])
				}
			})
		})

		Convey("When an injected event collides with a background event", func() {
			merged := injectBurst([]float64{burstOnset}, 2)
			So(merged, ShouldHaveLength, 3)
			for i := 1; i < len(merged); i++ {
				So(merged[i], ShouldBeGreaterThan, merged[i-1])
			}
		})
	})
}
