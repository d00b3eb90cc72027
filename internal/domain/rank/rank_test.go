package rank_test

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wptable/rankmatrix/internal/domain/rank"
)

func labels(rows []rank.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r[rank.RowKey].(string)
	}
	return out
}

func TestOrder(t *testing.T) {
	Convey("Given the bucket order", t, func() {
		o := rank.Order()

		Convey("Then it lists 1..20 followed by unranked", func() {
			So(len(o), ShouldEqual, rank.BucketCount)
			So(o[0], ShouldEqual, "1")
			So(o[19], ShouldEqual, "20")
			So(o[20], ShouldEqual, rank.Unranked)
		})

		Convey("And callers cannot mutate the shared order", func() {
			o[0] = "x"
			So(rank.Order()[0], ShouldEqual, "1")
		})
	})
}

func TestNormalizeKey(t *testing.T) {
	Convey("Given raw rank values from the store", t, func() {
		So(rank.NormalizeKey(" 3 "), ShouldEqual, "3")
		So(rank.NormalizeKey(float64(7)), ShouldEqual, "7")
		So(rank.NormalizeKey(int64(12)), ShouldEqual, "12")
		So(rank.NormalizeKey("UNRANKED"), ShouldEqual, "unranked")
		So(rank.NormalizeKey(nil), ShouldEqual, "")
	})
}

func TestAlign(t *testing.T) {
	Convey("Given the rank-aligned assembler", t, func() {
		Convey("When the collection is empty", func() {
			rows, err := rank.Align(nil, rank.Integral)

			Convey("Then it still returns 21 null rows in order", func() {
				So(err, ShouldBeNil)
				So(labels(rows), ShouldResemble, rank.Order())
				for _, r := range rows {
					So(len(r), ShouldEqual, rank.BucketCount+1)
					So(r["1"], ShouldBeNil)
					So(r[rank.Unranked], ShouldBeNil)
				}
			})
		})

		Convey("When documents are sparse and out of order", func() {
			docs := []map[string]any{
				{"_id": "abc", "Rank": "Unranked", "1": float64(2), "2": ""},
				{"Rank": float64(3), "1": "4", "2": nil},
				{"Rank": " 1 ", "1": float64(0), "20": float64(9)},
			}
			rows, err := rank.Align(docs, rank.Integral)

			Convey("Then rows follow the fixed order regardless of input order", func() {
				So(err, ShouldBeNil)
				So(labels(rows), ShouldResemble, rank.Order())
			})

			Convey("And present rows copy converted values without Rank or _id", func() {
				So(rows[0]["1"], ShouldEqual, int64(0))
				So(rows[0]["20"], ShouldEqual, int64(9))
				So(rows[2]["1"], ShouldEqual, int64(4))
				So(rows[2]["2"], ShouldBeNil)
				So(rows[20]["1"], ShouldEqual, int64(2))
				So(rows[20]["2"], ShouldBeNil)
				_, hasRank := rows[0]["Rank"]
				_, hasID := rows[20]["_id"]
				So(hasRank, ShouldBeFalse)
				So(hasID, ShouldBeFalse)
			})

			Convey("And missing ranks are filled with null rows", func() {
				So(rows[1][rank.RowKey], ShouldEqual, "2")
				So(rows[1]["1"], ShouldBeNil)
			})
		})

		Convey("When the collection holds more ranks than known buckets", func() {
			docs := []map[string]any{{"Rank": "21", "1": "1"}, {"Rank": "0", "1": "1"}}
			rows, err := rank.Align(docs, rank.Integral)

			Convey("Then unknown ranks are ignored", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, rank.BucketCount)
			})
		})

		Convey("When fractional values are requested", func() {
			docs := []map[string]any{{"Rank": "2", "1": "0.25", "3": json.Number("0.5"), "4": int64(1)}}
			rows, err := rank.Align(docs, rank.Fractional)

			Convey("Then cells are float64", func() {
				So(err, ShouldBeNil)
				So(rows[1]["1"], ShouldEqual, 0.25)
				So(rows[1]["3"], ShouldEqual, 0.5)
				So(rows[1]["4"], ShouldEqual, 1.0)
			})
		})

		Convey("When an integral cell holds a fractional number", func() {
			rows, err := rank.Align([]map[string]any{{"Rank": "1", "2": 3.9}}, rank.Integral)

			Convey("Then it truncates toward zero", func() {
				So(err, ShouldBeNil)
				So(rows[0]["2"], ShouldEqual, int64(3))
			})
		})

		Convey("When a value cannot be converted", func() {
			_, err := rank.Align([]map[string]any{{"Rank": "1", "2": "three"}}, rank.Integral)

			Convey("Then the whole assembly fails", func() {
				So(errors.Is(err, rank.ErrConvert), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "rank 1 column 2")
			})
		})

		Convey("When an integral string carries a decimal point", func() {
			_, err := rank.Align([]map[string]any{{"Rank": "1", "2": "3.0"}}, rank.Integral)
			So(errors.Is(err, rank.ErrConvert), ShouldBeTrue)
		})

		Convey("When a value has an unsupported type", func() {
			_, err := rank.Align([]map[string]any{{"Rank": "1", "2": []any{1}}}, rank.Fractional)
			So(errors.Is(err, rank.ErrConvert), ShouldBeTrue)
		})
	})
}

func TestDeriveProbabilities(t *testing.T) {
	Convey("Given aligned wins and games", t, func() {
		wins, err := rank.Align([]map[string]any{
			{"Rank": "1", "2": float64(3), "3": float64(1), "4": float64(2)},
		}, rank.Integral)
		So(err, ShouldBeNil)
		games, err := rank.Align([]map[string]any{
			{"Rank": "1", "2": float64(4), "3": float64(0), "5": float64(2)},
		}, rank.Integral)
		So(err, ShouldBeNil)

		probs := rank.DeriveProbabilities(wins, games)

		Convey("Then every row keeps its rank label", func() {
			So(labels(probs), ShouldResemble, rank.Order())
		})

		Convey("Then present cells divide wins by games exactly", func() {
			So(probs[0]["2"], ShouldEqual, 0.75)
		})

		Convey("And zero games yield null", func() {
			So(probs[0]["3"], ShouldBeNil)
		})

		Convey("And a missing count on either side yields null", func() {
			So(probs[0]["4"], ShouldBeNil)
			So(probs[0]["5"], ShouldBeNil)
			So(probs[5]["1"], ShouldBeNil)
		})

		Convey("And every header column is present", func() {
			for _, h := range rank.Headers() {
				_, ok := probs[0][h]
				So(ok, ShouldBeTrue)
			}
		})
	})

	Convey("Given fewer game rows than win rows", t, func() {
		wins := []rank.Row{{rank.RowKey: "1", "1": int64(1)}, {rank.RowKey: "2", "1": int64(1)}}
		games := []rank.Row{{rank.RowKey: "1", "1": int64(2)}}

		probs := rank.DeriveProbabilities(wins, games)

		Convey("Then unmatched rows are all null", func() {
			So(probs[0]["1"], ShouldEqual, 0.5)
			So(probs[1]["1"], ShouldBeNil)
		})
	})
}

func TestMatchKey(t *testing.T) {
	Convey("Given one-based rank inputs", t, func() {
		Convey("When both are numeric", func() {
			key, err := rank.MatchKey("4", "10")
			So(err, ShouldBeNil)
			So(key, ShouldEqual, "3_9")
		})

		Convey("When a rank is not numeric", func() {
			_, err := rank.MatchKey("unranked", "1")
			So(errors.Is(err, rank.ErrInvalidRank), ShouldBeTrue)
		})
	})
}
