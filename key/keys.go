// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog - the listing page every run starts from.
const (
	CatalogURL = "catalog.url"
)

// Session - the authenticated cookie set attached to every request.
const (
	SessionCookies = "session.cookies"
)

// Playlist Resolution - these keys govern manifest discovery and the expired-session sanity gate.
const (
	PlaylistManifest    = "playlist.manifest"
	PlaylistMinSegments = "playlist.min_segments"
)

// Download Layout - these keys define where segments and assembled artifacts live.
const (
	DownloadSegmentsDir = "download.segments_dir"
	DownloadOutputDir   = "download.output_dir"
	DownloadExtension   = "download.extension"
	DownloadWorkers     = "download.workers"
	DownloadLock        = "download.lock"
)

// Network - transport tuning.
const (
	NetworkRetries     = "network.retries"
	NetworkBackoff     = "network.backoff"
	NetworkTimeout     = "network.timeout"
	NetworkImpersonate = "network.impersonate"
)

// Publishing - these keys configure the cloud upload collaborator.
const (
	PublishBucket   = "publish.bucket"
	PublishFolder   = "publish.folder"
	PublishRegion   = "publish.region"
	PublishEndpoint = "publish.endpoint"
)

// History Tracking - these keys configure the persistence of completed downloads.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application behavior outside the pipeline.
const (
	CliColored = "cli.colored"
)
