// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Filesystem and catalog defaults shared by the configuration registry and the CLI.
const (
	DefaultCatalogURL   = "https://talk.objc.io/episodes/"
	DefaultCookieFile   = "cookies.txt"
	DefaultSegmentsDir  = "content"
	DefaultOutputDir    = "videos"
	DefaultManifestName = "1080p.m3u8"
	DefaultExtension    = "m2ts"
	DefaultMinSegments  = 20
	DefaultUploadFolder = "SwiftTalk"
)
