package icon

import (
	"testing"

	"github.com/episodl/episodl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the icon registry", t, func() {
		Convey("Every icon renders for each variant", func() {
			for i := range icons {
				for _, variant := range AvailableVariants() {
					viper.Set(key.IconsVariant, variant)
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Success), ShouldBeEmpty)
		})

		Convey("It returns empty for an unknown icon", func() {
			viper.Set(key.IconsVariant, "plain")
			So(Get(Icon(-1)), ShouldBeEmpty)
		})
	})
}
