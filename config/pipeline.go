package config

import (
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/pipeline"
	"github.com/episodl/episodl/where"
	"github.com/spf13/viper"
)

// Pipeline snapshots the current settings into the explicit configuration the orchestrator runs with.
func Pipeline() pipeline.Config {
	return pipeline.Config{
		CatalogURL:   viper.GetString(key.CatalogURL),
		SegmentsRoot: where.Segments(),
		OutputRoot:   where.Output(),
		ManifestName: viper.GetString(key.PlaylistManifest),
		MinSegments:  viper.GetInt(key.PlaylistMinSegments),
		Extension:    viper.GetString(key.DownloadExtension),
		Workers:      viper.GetInt(key.DownloadWorkers),
		Lock:         viper.GetBool(key.DownloadLock),
		LocksDir:     where.Locks(),
		History:      viper.GetBool(key.HistorySave),
	}
}
