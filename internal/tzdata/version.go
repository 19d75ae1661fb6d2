package tzdata

import (
	"os"
	"path/filepath"
	"strings"
)

// VersionFile holds the single-line tzdata release identifier.
const VersionFile = "version"

// UnknownVersion is reported when the version file is missing or empty.
const UnknownVersion = "unknown"

// ReadVersion returns the tzdata release identifier from dir, for example
// "2025a". A missing or empty version file is logged and yields
// UnknownVersion.
func ReadVersion(dir string, logger Logger) string {
	data, err := os.ReadFile(filepath.Join(dir, VersionFile))
	if err != nil {
		logger.Warn("missing version file", "file", VersionFile)
		return UnknownVersion
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		logger.Warn("empty version file", "file", VersionFile)
		return UnknownVersion
	}
	return version
}
