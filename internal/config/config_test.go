package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/wptable/rankmatrix/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5001")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 3600)
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, time.Hour)
			convey.So(cfg.CacheCapacity, convey.ShouldEqual, 100)
			convey.So(cfg.ProbabilityMode, convey.ShouldEqual, config.ProbabilityDerived)
			convey.So(cfg.WarmCache, convey.ShouldBeTrue)
			convey.So(cfg.WarmMaxRank, convey.ShouldEqual, 5)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the postgres driver has no database url", func() {
			cfg.StoreDriver = config.StorePostgres
			err := cfg.Validate()

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "database_url")
			})
		})

		convey.Convey("When the store driver is unknown", func() {
			cfg.StoreDriver = "mongo"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the probability mode is unknown", func() {
			cfg.ProbabilityMode = "both"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When cache bounds are not positive", func() {
			cfg.CacheCapacity = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When warm_max_rank exceeds the rank range", func() {
			cfg.WarmMaxRank = 21
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
