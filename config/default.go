package config

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string, rules ...rule) {
	if _, exists := Default[k]; exists {
		panic("duplicate config key: " + k)
	}

	Default[k] = Field{Key: k, Value: v, Description: desc, rules: rules}
	EnvExposed = append(EnvExposed, k)
}

func between(min, max int) rule {
	return rule{
		hint: "between " + strconv.Itoa(min) + " and " + strconv.Itoa(max),
		ok: func(v any) bool {
			n, ok := v.(int)
			return ok && n >= min && n <= max
		},
	}
}

func atLeast(min int) rule {
	return rule{
		hint: "at least " + strconv.Itoa(min),
		ok: func(v any) bool {
			n, ok := v.(int)
			return ok && n >= min
		},
	}
}

func oneOf(options ...string) rule {
	return rule{
		hint: "one of " + strings.Join(options, ", "),
		ok: func(v any) bool {
			s, ok := v.(string)
			return ok && lo.Contains(options, s)
		},
	}
}

func matches(hint string, pred func(s string) bool) rule {
	return rule{
		hint: hint,
		ok: func(v any) bool {
			s, ok := v.(string)
			return ok && pred(s)
		},
	}
}

var (
	notEmpty = matches("not empty", func(s string) bool { return strings.TrimSpace(s) != "" })

	webURL = matches("an http(s) URL", func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})

	optionalWebURL = matches("empty or an http(s) URL", func(s string) bool {
		return s == "" || webURL.ok(s)
	})

	extension = matches("an extension without dot or slash", func(s string) bool {
		return s != "" && !strings.ContainsAny(s, "./\\")
	})

	bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

	bucketName = matches("empty or a bucket name (3-63 lowercase letters, digits, dots, hyphens)", func(s string) bool {
		return s == "" || bucketPattern.MatchString(s)
	})
)

func init() {
	levels := lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })

	register(key.CatalogURL, constant.DefaultCatalogURL, "Catalog page listing every episode, newest first", webURL)
	register(key.SessionCookies, constant.DefaultCookieFile, "Cookie file holding the authenticated session.\nRelative paths resolve against the working directory", notEmpty)
	register(key.PlaylistManifest, constant.DefaultManifestName, "Manifest filename joined to the segment source location", notEmpty)
	register(key.PlaylistMinSegments, constant.DefaultMinSegments, "Manifests with fewer segments are treated as an expired session", atLeast(1))
	register(key.DownloadSegmentsDir, constant.DefaultSegmentsDir, "Directory holding one segment directory per episode", notEmpty)
	register(key.DownloadOutputDir, constant.DefaultOutputDir, "Directory holding assembled episodes", notEmpty)
	register(key.DownloadExtension, constant.DefaultExtension, "Extension of assembled episodes", extension)
	register(key.DownloadWorkers, 1, "Number of segments fetched in parallel.\n1 downloads segments one at a time", between(1, 64))
	register(key.DownloadLock, true, "Hold a per-episode lock so concurrent runs never process the same episode")
	register(key.NetworkRetries, 3, "Retries for transient network failures (connection errors, 5xx, 429)", between(0, 10))
	register(key.NetworkBackoff, 500, "Initial retry backoff in milliseconds, doubled on each attempt", between(0, 60_000))
	register(key.NetworkTimeout, 120, "Per-request timeout in seconds", between(1, 3600))
	register(key.NetworkImpersonate, false, "Use a browser TLS fingerprint for all requests")
	register(key.PublishBucket, "", "S3 bucket receiving uploads.\nUploads are disabled while empty", bucketName)
	register(key.PublishFolder, constant.DefaultUploadFolder, "Folder (key prefix) uploads are placed under")
	register(key.PublishRegion, "us-east-1", "Region of the upload bucket", notEmpty)
	register(key.PublishEndpoint, "", "S3-compatible endpoint used instead of AWS when set", optionalWebURL)
	register(key.HistorySave, true, "Record completed downloads in the history file")
	register(key.IconsVariant, "plain", "Icons shown in front of progress lines.\nnerd requires a nerd font", oneOf(icon.AvailableVariants()...))
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Minimum level written to the log file", oneOf(levels...))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored help output")
}
