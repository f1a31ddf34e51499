// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "EPISODL_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// workdir resolves path against the current working directory unless it is already absolute.
func workdir(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(wd, path)
}

// Config resolves the absolute path to the primary application configuration directory.
// Direct override: The path resolution can be explicitly specified via the EPISODL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the absolute path to the download history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Locks resolves the directory holding per-episode advisory lock files.
// Locks always live on the host filesystem, regardless of the active backend.
func Locks() string {
	dir := filepath.Join(os.TempDir(), constant.App, "locks")
	_ = os.MkdirAll(dir, os.ModePerm)
	return dir
}

// Cookies resolves the session cookie file, relative to the working directory by default.
func Cookies() string {
	return workdir(viper.GetString(key.SessionCookies))
}

// Segments resolves the root directory that holds one segment directory per episode.
func Segments() string {
	return workdir(viper.GetString(key.DownloadSegmentsDir))
}

// Output resolves the directory that holds assembled episode artifacts.
func Output() string {
	return workdir(viper.GetString(key.DownloadOutputDir))
}
