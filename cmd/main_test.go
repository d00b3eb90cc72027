package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/wptable/rankmatrix/internal/adapters/http/api"
	"github.com/wptable/rankmatrix/internal/adapters/http/swagger"
	"github.com/wptable/rankmatrix/internal/config"
	"github.com/wptable/rankmatrix/pkg/logger"
)

const (
	testSeed = `{
  "wins":    [{"Rank": 1, "2": 3}],
  "Delim":   [{"Rank": 1, "2": 4}],
  "matches": [{"0_1": [{"date": "2023-10-01"}]}]
}`
	testTeams    = "team_name,team_id\nUCLA,1\nUSC,2\n"
	testRankings = `{"09/05/2023": [{"team_id": 1, "ranking": 2}, {"team_name": "USC", "ranking": 1}]}`
)

func writeFile(dir, name, body string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		panic(err)
	}
	return path
}

func testConfig(dir string) *config.Config {
	cfg := config.New()
	cfg.SeedFile = writeFile(dir, "seed.json", testSeed)
	cfg.TeamMappingsFile = writeFile(dir, "teams.csv", testTeams)
	cfg.RankingsFile = writeFile(dir, "rankings.json", testRankings)
	cfg.WarmMaxRank = 2
	return cfg
}

func TestConfigLoading(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("RANKMATRIX_ADDR", ":8080")
		t.Setenv("RANKMATRIX_CACHE_CAPACITY", "10")

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.CacheCapacity, convey.ShouldEqual, 10)
		})
	})

	convey.Convey("Given an invalid store driver", t, func() {
		t.Setenv("RANKMATRIX_STORE_DRIVER", "mongo")

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestBootstrap(t *testing.T) {
	convey.Convey("Given seed, team and rankings files", t, func() {
		ctx := context.Background()
		cfg := testConfig(t.TempDir())

		convey.Convey("When bootstrapping the service", func() {
			svc, store, err := bootstrap(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer store.Close()

			convey.Convey("Then the seed reaches the store", func() {
				n, err := store.Count(ctx, "wins")
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 1)

				m, err := svc.Matrix(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.ProbData[0]["2"], convey.ShouldEqual, 0.75)
			})

			convey.Convey("And teams and history are loaded", func() {
				teams := svc.Teams(ctx)
				convey.So(teams.Count, convey.ShouldEqual, 2)
				convey.So(teams.ObservedTeams, convey.ShouldResemble, []int{1, 2})
			})

			convey.Convey("And warm-up populates the cache", func() {
				svc.Warm(ctx)
				convey.So(svc.CacheInfo(ctx).Size, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the data files are missing", func() {
			cfg.SeedFile = filepath.Join(t.TempDir(), "none.json")
			cfg.TeamMappingsFile = filepath.Join(t.TempDir(), "none.csv")
			cfg.RankingsFile = filepath.Join(t.TempDir(), "none.json")
			svc, store, err := bootstrap(ctx, cfg, logger.Nop())

			convey.Convey("Then the service starts empty", func() {
				convey.So(err, convey.ShouldBeNil)
				defer store.Close()
				convey.So(svc.Teams(ctx).Count, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the rankings file is malformed", func() {
			cfg.RankingsFile = writeFile(t.TempDir(), "bad.json", "[1, 2]")
			_, _, err := bootstrap(ctx, cfg, logger.Nop())

			convey.Convey("Then bootstrap fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the probability mode is unknown", func() {
			cfg.ProbabilityMode = "guess"
			_, _, err := bootstrap(ctx, cfg, logger.Nop())

			convey.Convey("Then bootstrap fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestRoutes(t *testing.T) {
	convey.Convey("Given a bootstrapped service behind the full mux", t, func() {
		ctx := context.Background()
		svc, store, err := bootstrap(ctx, testConfig(t.TempDir()), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer store.Close()

		mux := http.NewServeMux()
		swagger.Register(ctx, mux)
		apiServer := api.NewServer(svc, logger.Nop())
		apiServer.Register(mux)
		handler := apiServer.Handler(mux)

		for _, path := range []string{"/api/health", "/api/matrix", "/api/matches/1/2", "/api/teams", "/openapi.yaml", "/metrics"} {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the loop should return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx, 10*time.Millisecond) }, convey.ShouldNotPanic)
		})
	})
}
