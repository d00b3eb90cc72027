package smoke_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wptable/rankmatrix/internal/adapters/docstore"
	"github.com/wptable/rankmatrix/internal/adapters/http/api"
	service "github.com/wptable/rankmatrix/internal/app"
	"github.com/wptable/rankmatrix/internal/domain/teams"
	"github.com/wptable/rankmatrix/internal/smoke"
	"github.com/wptable/rankmatrix/pkg/logger"
)

func newServer() *httptest.Server {
	ctx := context.Background()
	store := docstore.NewMemory()
	_ = store.Insert(ctx, docstore.CollectionWins, docstore.Document{"Rank": 1.0, "2": 3.0})
	_ = store.Insert(ctx, docstore.CollectionGames, docstore.Document{"Rank": 1.0, "2": 4.0})
	_ = store.Insert(ctx, docstore.CollectionMatches, docstore.Document{
		"0_1": []any{map[string]any{"date": "2023-10-01"}},
	})

	svc := service.New(
		service.WithStore(store),
		service.WithResolver(teams.NewResolver(teams.NewTable([]teams.Mapping{{Name: "UCLA", ID: 1}}))),
	)
	srv := api.NewServer(svc, logger.Nop())
	mux := http.NewServeMux()
	srv.Register(mux)
	return httptest.NewServer(srv.Handler(mux))
}

func config(url string) smoke.Config {
	return smoke.Config{BaseURL: url, Timeout: 5 * time.Second, Workers: 4, Requests: 8}
}

func TestRun(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := newServer()
		defer ts.Close()
		ctx := context.Background()

		Convey("When every check is run", func() {
			stats, err := smoke.Run(ctx, config(ts.URL), logger.Nop())

			Convey("Then all checks and requests pass", func() {
				So(err, ShouldBeNil)
				So(stats.Checks, ShouldEqual, 5)
				So(stats.ChecksPassed, ShouldEqual, 5)
				So(stats.Failed, ShouldBeEmpty)
				So(stats.Requests, ShouldEqual, 8)
				So(stats.RequestsOK, ShouldEqual, 8)
				So(stats.Duration, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the matches pair has no games recorded", func() {
			cfg := config(ts.URL)
			cfg.RowRank, cfg.ColRank = "4", "10"
			stats, err := smoke.Run(ctx, cfg, nil)

			Convey("Then only the matches check fails", func() {
				So(errors.Is(err, smoke.ErrCheckFailed), ShouldBeTrue)
				So(stats.Failed, ShouldResemble, []string{"matches"})
				So(stats.ChecksPassed, ShouldEqual, 4)
			})

			Convey("And the load phase counts the failing path", func() {
				So(stats.RequestsFailed, ShouldEqual, 2)
				So(stats.RequestsOK, ShouldEqual, 6)
			})
		})

		Convey("When the load phase is disabled", func() {
			cfg := config(ts.URL)
			cfg.Requests = 0
			stats, err := smoke.Run(ctx, cfg, nil)

			Convey("Then no requests are counted", func() {
				So(err, ShouldBeNil)
				So(stats.Requests, ShouldEqual, 0)
			})
		})
	})
}

func TestRunUnhealthy(t *testing.T) {
	Convey("Given a server whose health probe fails", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		Convey("When running", func() {
			stats, err := smoke.Run(context.Background(), config(ts.URL), nil)

			Convey("Then the run stops before any check", func() {
				So(errors.Is(err, smoke.ErrUnhealthy), ShouldBeTrue)
				So(stats.Checks, ShouldEqual, 0)
			})
		})
	})

	Convey("Given nothing listening", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		Convey("Then the health probe reports the connection error", func() {
			_, err := smoke.Run(context.Background(), config(url), nil)
			So(errors.Is(err, smoke.ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestDefaultConfig(t *testing.T) {
	Convey("DefaultConfig targets a local server", t, func() {
		cfg := smoke.DefaultConfig()
		So(cfg.BaseURL, ShouldEqual, smoke.DefaultBaseURL)
		So(cfg.Workers, ShouldBeGreaterThan, 0)
		So(cfg.RowRank, ShouldEqual, "1")
		So(cfg.ColRank, ShouldEqual, "2")
	})
}
