package tzdata

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tzbundle/internal/model"
)

// MetadataFile is the tab-separated country/coordinate table shipped with
// every tzdata release.
const MetadataFile = "zone1970.tab"

// Metadata is one zone1970.tab record, keyed externally by zone name.
type Metadata struct {
	CountryCode string
	Coordinates string
	Comment     string
}

// LoadMetadata reads zone1970.tab from dir. A missing file is logged and
// yields an empty table; zones then simply keep their empty defaults.
func LoadMetadata(dir string, logger Logger) map[string]Metadata {
	f, err := os.Open(filepath.Join(dir, MetadataFile))
	if err != nil {
		logger.Warn("missing metadata file", "file", MetadataFile)
		return map[string]Metadata{}
	}
	defer f.Close()
	return ParseMetadata(f, logger)
}

// ParseMetadata parses tab-separated records of the form
//
//	COUNTRY-CODE<TAB>COORDINATES<TAB>ZONE-NAME[<TAB>COMMENT]
//
// Comment lines, blank lines and records with fewer than three fields are
// skipped; short records are logged with their line number.
func ParseMetadata(r io.Reader, logger Logger) map[string]Metadata {
	meta := make(map[string]Metadata)

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			logger.Warn("skipping malformed metadata record",
				"file", MetadataFile, "line", lineNumber)
			continue
		}

		m := Metadata{
			CountryCode: parts[0],
			Coordinates: parts[1],
		}
		if len(parts) > 3 {
			m.Comment = parts[3]
		}
		meta[parts[2]] = m
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading metadata file", "file", MetadataFile, "error", err)
	}
	return meta
}

// MergeMetadata copies country codes, coordinates and comments onto the
// zones they name. Application is zone-name-driven: metadata entries that
// match no parsed zone are silently unused, and zones without a record
// keep their empty defaults.
func MergeMetadata(zones map[string]*model.Zone, meta map[string]Metadata, logger Logger) {
	merged := 0
	for name, zone := range zones {
		m, ok := meta[name]
		if !ok {
			continue
		}
		zone.CountryCode = m.CountryCode
		zone.Comment = m.Comment
		zone.Latitude, zone.Longitude = splitCoordinates(m.Coordinates)
		merged++
	}
	logger.Info("merged zone metadata", "matched", merged, "zones", len(zones))
}

// splitCoordinates splits an ISO 6709 sign-prefixed coordinate pair such as
// "+3733+12658" at the midpoint of the string. This relies on the fixed
// convention that both halves are similar-length signed fixed-point strings
// (±DDMM±DDDMM or ±DDMMSS±DDDMMSS); the halves are kept as opaque text and
// never parsed numerically.
func splitCoordinates(coords string) (lat, lon string) {
	if len(coords) < 4 {
		return "", ""
	}
	mid := len(coords) / 2
	return coords[:mid], coords[mid:]
}
