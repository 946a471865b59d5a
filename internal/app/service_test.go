package service_test

import (
	"context"
	"testing"

	service "github.com/okian/evsig/internal/app"
	"github.com/okian/evsig/internal/domain/model"
	"github.com/okian/evsig/internal/domain/poisson"
	"github.com/okian/evsig/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestServiceScore(t *testing.T) {
	Convey("Given a service with defaults", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When scoring an empty train", func() {
			score, err := svc.Score(ctx, nil, 5)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 1.0)
		})

		Convey("When scoring a train with an early cluster", func() {
			base, err := svc.Score(ctx, model.Train{0.1, 0.3, 0.5, 0.7}, 2)
			So(err, ShouldBeNil)
			raised, err := svc.Score(ctx, model.Train{0.02, 0.1, 0.3, 0.5, 0.7}, 2)
			So(err, ShouldBeNil)
			So(raised, ShouldBeGreaterThan, base)
		})

		Convey("When the train is malformed", func() {
			_, err := svc.Score(ctx, model.Train{0.3, 0.1}, 2)
			So(err, ShouldWrap, model.ErrUnsorted)
		})

		Convey("When the rate is invalid", func() {
			_, err := svc.Score(ctx, model.Train{0.1}, 0)
			So(err, ShouldWrap, poisson.ErrInvalidRate)
		})

		Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Score(cancelled, model.Train{0.1}, 2)
			So(err, ShouldWrap, context.Canceled)
		})
	})
}

func TestServiceIntegralAndBlame(t *testing.T) {
	Convey("Given a service with a custom window", t, func() {
		svc, err := service.New(
			service.WithDefaultWindow(0.005, 0.5),
			service.WithGridResolution(200),
			service.WithCurveCacheSize(32),
		)
		So(err, ShouldBeNil)
		ctx := context.Background()
		w := svc.DefaultWindow()

		Convey("Then the default window reflects the option", func() {
			So(w.TMin, ShouldEqual, 0.005)
			So(w.TMax, ShouldEqual, 0.5)
		})

		Convey("When integrating a train", func() {
			train := model.Train{0.02, 0.1, 0.3}
			first, err := svc.Integral(ctx, train, 3, w)
			So(err, ShouldBeNil)
			So(first, ShouldBeGreaterThan, 0)

			Convey("Then repeated calls are deterministic", func() {
				second, err := svc.Integral(ctx, train, 3, w)
				So(err, ShouldBeNil)
				So(second, ShouldEqual, first)
			})
		})

		Convey("When integrating with a bad window", func() {
			_, err := svc.Integral(ctx, model.Train{0.1}, 3, model.Window{TMin: 0.5, TMax: 0.3})
			So(err, ShouldWrap, model.ErrInvalidBounds)
		})

		Convey("When decomposing blame", func() {
			train := model.Train{0.02, 0.1, 0.3}

			sb, err := svc.ScoreBlame(ctx, train, 3)
			So(err, ShouldBeNil)
			So(sb, ShouldHaveLength, len(train))

			ib, err := svc.IntegralBlame(ctx, train, 3, w)
			So(err, ShouldBeNil)
			So(ib, ShouldHaveLength, len(train))
		})

		Convey("When publishing metrics", func() {
			So(svc.PublishMetrics, ShouldNotPanic)
		})
	})
}
