package pipeline

import (
	"errors"
	"testing"

	"github.com/episodl/episodl/episode"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func catalogOf(names ...string) []*episode.Episode {
	return lo.Map(names, func(name string, _ int) *episode.Episode {
		return lo.Must(episode.New("https://example.com/episodes/", "/episodes/"+name, "m2ts"))
	})
}

func fullNames(episodes []*episode.Episode) []string {
	return lo.Map(episodes, func(ep *episode.Episode, _ int) string { return ep.FullName })
}

func TestSelect(t *testing.T) {
	Convey("Given a catalog", t, func() {
		episodes := catalogOf("S01E043-testing", "S01E042-view-models", "S01E041-networking")

		Convey("All keeps catalog order", func() {
			selected, err := Select(episodes, Selection{Mode: All})
			So(err, ShouldBeNil)
			So(fullNames(selected), ShouldResemble, []string{"S01E043-testing", "S01E042-view-models", "S01E041-networking"})
			So(selected[0].Upload, ShouldBeFalse)
		})

		Convey("Latest takes only the first entry", func() {
			selected, err := Select(episodes, Selection{Mode: Latest, Upload: true})
			So(err, ShouldBeNil)
			So(fullNames(selected), ShouldResemble, []string{"S01E043-testing"})
			So(selected[0].Upload, ShouldBeTrue)
			So(episodes[1].Upload, ShouldBeFalse)
		})

		Convey("ByID takes the first full name containing the token", func() {
			selected, err := Select(episodes, Selection{Mode: ByID, Token: "042"})
			So(err, ShouldBeNil)
			So(fullNames(selected), ShouldResemble, []string{"S01E042-view-models"})

			selected, err = Select(episodes, Selection{Mode: ByID, Token: "S01E04"})
			So(err, ShouldBeNil)
			So(fullNames(selected), ShouldResemble, []string{"S01E043-testing"})
		})

		Convey("An unknown token fails with a suggestion when one is close", func() {
			_, err := Select(episodes, Selection{Mode: ByID, Token: "viewmodels"})
			So(errors.Is(err, ErrNoMatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "did you mean S01E042-view-models?")

			_, err = Select(episodes, Selection{Mode: ByID, Token: "zzz"})
			So(errors.Is(err, ErrNoMatch), ShouldBeTrue)
			So(err.Error(), ShouldNotContainSubstring, "did you mean")
		})
	})

	Convey("Given an empty catalog", t, func() {
		selected, err := Select(nil, Selection{Mode: Latest})
		So(err, ShouldBeNil)
		So(selected, ShouldBeEmpty)
	})
}
