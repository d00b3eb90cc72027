package docstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wptable/rankmatrix/internal/adapters/docstore"
	"github.com/wptable/rankmatrix/internal/config"
	"github.com/wptable/rankmatrix/pkg/logger"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		s := docstore.NewMemory()

		Convey("When reading an unknown collection", func() {
			docs, err := s.Find(ctx, "wins")
			So(err, ShouldBeNil)
			So(docs, ShouldBeEmpty)

			_, err = s.FindOne(ctx, "matches")
			So(errors.Is(err, docstore.ErrNotFound), ShouldBeTrue)
		})

		Convey("When documents are inserted", func() {
			So(s.Insert(ctx, "wins",
				docstore.Document{"Rank": 1.0, "1": 0.0},
				docstore.Document{"Rank": 2.0, "1": 3.0},
			), ShouldBeNil)

			Convey("Then they come back in insertion order", func() {
				docs, err := s.Find(ctx, "wins")
				So(err, ShouldBeNil)
				So(len(docs), ShouldEqual, 2)
				So(docs[1]["1"], ShouldEqual, 3.0)

				first, err := s.FindOne(ctx, "wins")
				So(err, ShouldBeNil)
				So(first["Rank"], ShouldEqual, 1.0)

				n, err := s.Count(ctx, "wins")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})

			Convey("Then callers cannot mutate stored documents", func() {
				docs, _ := s.Find(ctx, "wins")
				docs[0]["Rank"] = 99.0
				first, _ := s.FindOne(ctx, "wins")
				So(first["Rank"], ShouldEqual, 1.0)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Find(cctx, "wins")
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When the store is closed", func() {
			So(s.Close(), ShouldBeNil)
			So(errors.Is(s.Ping(ctx), docstore.ErrClosed), ShouldBeTrue)
			_, err := s.Find(ctx, "wins")
			So(errors.Is(err, docstore.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestSeed(t *testing.T) {
	Convey("Given a seed file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "seed.json")
		So(os.WriteFile(path, []byte(`{
			"wins": [{"Rank": 1, "1": 0}, {"Rank": 2, "1": 4}],
			"matches": [{"0_1": [{"score": "10-9"}]}]
		}`), 0o600), ShouldBeNil)

		seed, err := docstore.LoadSeed(path)
		So(err, ShouldBeNil)

		Convey("When applied to an empty store", func() {
			s := docstore.NewMemory()
			n, err := seed.Apply(ctx, s)

			Convey("Then every collection is written", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				c, _ := s.Count(ctx, "matches")
				So(c, ShouldEqual, 1)
			})

			Convey("And applying again writes nothing", func() {
				n, err := seed.Apply(ctx, s)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given an invalid seed file", t, func() {
		path := filepath.Join(t.TempDir(), "seed.json")
		So(os.WriteFile(path, []byte(`[1,2]`), 0o600), ShouldBeNil)

		_, err := docstore.LoadSeed(path)
		So(errors.Is(err, docstore.ErrMalformedSeed), ShouldBeTrue)

		_, err = docstore.LoadSeed(filepath.Join(t.TempDir(), "missing.json"))
		So(err, ShouldNotBeNil)
	})
}

func TestOpen(t *testing.T) {
	Convey("Given store driver configuration", t, func() {
		ctx := context.Background()

		Convey("When the memory driver is selected", func() {
			cfg := config.New()
			s, err := docstore.Open(ctx, cfg, logger.Nop())
			So(err, ShouldBeNil)
			So(s.Ping(ctx), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})

		Convey("When the driver is unknown", func() {
			cfg := config.New()
			cfg.StoreDriver = "mongo"
			_, err := docstore.Open(ctx, cfg, logger.Nop())
			So(errors.Is(err, docstore.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}
