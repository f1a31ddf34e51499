package config

import (
	"errors"
	"testing"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/key"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	convey.Convey("Config Setup", t, func() {
		convey.Convey("Should initialize without error", func() {
			err := Setup()
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				convey.So(viper.Get(name), convey.ShouldNotBeNil)
			}
			convey.So(viper.GetInt(key.PlaylistMinSegments), convey.ShouldEqual, 20)
			convey.So(viper.GetString(key.PlaylistManifest), convey.ShouldEqual, "1080p.m3u8")
		})

		convey.Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("download.segments_dir")
			convey.So(result, convey.ShouldEqual, "download_segments_dir")
		})
	})
}

func TestField(t *testing.T) {
	convey.Convey("Given a registered field", t, func() {
		f := Default[key.DownloadWorkers]

		convey.Convey("Env should be prefixed with the application name", func() {
			convey.So(f.Env(), convey.ShouldEqual, "EPISODL_DOWNLOAD_WORKERS")
		})

		convey.Convey("It should render as JSON with its type", func() {
			b, err := f.MarshalJSON()
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldContainSubstring, `"type":"int"`)
			convey.So(string(b), convey.ShouldContainSubstring, `"allowed":"between 1 and 64"`)
		})

		convey.Convey("Parse converts and range-checks values", func() {
			v, err := f.Parse(" 4 ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 4)

			_, err = f.Parse("0")
			convey.So(errors.Is(err, ErrInvalidValue), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "between 1 and 64")

			_, err = f.Parse("four")
			convey.So(errors.Is(err, ErrInvalidValue), convey.ShouldBeTrue)
		})
	})
}

func TestSet(t *testing.T) {
	convey.Convey("Given loaded settings", t, func() {
		convey.So(Setup(), convey.ShouldBeNil)
		convey.So(Reset(key.DownloadWorkers), convey.ShouldBeNil)
		convey.So(Reset(key.PublishBucket), convey.ShouldBeNil)
		convey.So(Reset(key.LogsLevel), convey.ShouldBeNil)

		convey.Convey("A valid value is applied", func() {
			v, err := Set(key.DownloadWorkers, "8")
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 8)
			convey.So(viper.GetInt(key.DownloadWorkers), convey.ShouldEqual, 8)
			convey.So(Check(), convey.ShouldBeNil)

			convey.So(Reset(key.DownloadWorkers), convey.ShouldBeNil)
			convey.So(viper.GetInt(key.DownloadWorkers), convey.ShouldEqual, 1)
		})

		convey.Convey("Out of range values are rejected and not applied", func() {
			for k, raw := range map[string]string{
				key.PlaylistMinSegments: "0",
				key.NetworkRetries:      "11",
				key.NetworkTimeout:      "0",
				key.PublishBucket:       "My_Bucket",
				key.PublishEndpoint:     "minio:9000",
				key.CatalogURL:          "ftp://example.com/episodes/",
				key.DownloadExtension:   ".m2ts",
				key.LogsLevel:           "verbose",
				key.IconsVariant:        "ascii",
			} {
				before := viper.Get(k)
				_, err := Set(k, raw)
				convey.So(errors.Is(err, ErrInvalidValue), convey.ShouldBeTrue)
				convey.So(viper.Get(k), convey.ShouldEqual, before)
			}
		})

		convey.Convey("Optional values accept empty strings", func() {
			_, err := Set(key.PublishBucket, "")
			convey.So(err, convey.ShouldBeNil)
			_, err = Set(key.PublishBucket, "swift-talk.videos")
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("Unknown keys suggest the closest key", func() {
			_, err := Set("download.worker", "2")
			convey.So(errors.Is(err, ErrUnknownKey), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "did you mean download.workers?")
		})

		convey.Convey("Check reports invalid values coming from outside", func() {
			viper.Set(key.LogsLevel, "loud")
			err := Check()
			convey.So(errors.Is(err, ErrInvalidValue), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key.LogsLevel)
		})
	})
}

func TestPipeline(t *testing.T) {
	convey.Convey("Given default settings", t, func() {
		_ = Setup()
		cfg := Pipeline()

		convey.So(cfg.CatalogURL, convey.ShouldEqual, constant.DefaultCatalogURL)
		convey.So(cfg.MinSegments, convey.ShouldEqual, constant.DefaultMinSegments)
		convey.So(cfg.Extension, convey.ShouldEqual, constant.DefaultExtension)
		convey.So(cfg.Workers, convey.ShouldEqual, 1)
		convey.So(cfg.SegmentsRoot, convey.ShouldEndWith, constant.DefaultSegmentsDir)
		convey.So(cfg.OutputRoot, convey.ShouldEndWith, constant.DefaultOutputDir)
	})
}
