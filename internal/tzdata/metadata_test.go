package tzdata

import (
	"strings"
	"testing"

	"tzbundle/internal/model"
)

func TestParseMetadata(t *testing.T) {
	t.Run("parses tab-separated records", func(t *testing.T) {
		input := "# country-code\tcoordinates\tTZ\tcomments\n" +
			"KR\t+3733+12658\tAsia/Seoul\n" +
			"AU\t-3352+15113\tAustralia/Sydney\tNew South Wales (most areas)\n"

		meta := ParseMetadata(strings.NewReader(input), NewNopLogger())
		if len(meta) != 2 {
			t.Fatalf("records = %d, want 2", len(meta))
		}

		seoul := meta["Asia/Seoul"]
		if seoul.CountryCode != "KR" {
			t.Errorf("CountryCode = %q, want %q", seoul.CountryCode, "KR")
		}
		if seoul.Coordinates != "+3733+12658" {
			t.Errorf("Coordinates = %q, want %q", seoul.Coordinates, "+3733+12658")
		}
		if seoul.Comment != "" {
			t.Errorf("Comment = %q, want empty", seoul.Comment)
		}

		sydney := meta["Australia/Sydney"]
		if sydney.Comment != "New South Wales (most areas)" {
			t.Errorf("Comment = %q, want %q", sydney.Comment, "New South Wales (most areas)")
		}
	})

	t.Run("skips short records and blank lines", func(t *testing.T) {
		input := "\n" +
			"KR\t+3733+12658\n" +
			"KR\t+3733+12658\tAsia/Seoul\n"

		meta := ParseMetadata(strings.NewReader(input), NewNopLogger())
		if len(meta) != 1 {
			t.Errorf("records = %d, want 1", len(meta))
		}
	})
}

func TestSplitCoordinates(t *testing.T) {
	tests := []struct {
		coords   string
		wantLat  string
		wantLon  string
	}{
		{"+3733+12658", "+3733", "+12658"},           // ±DDMM±DDDMM
		{"-3352+15113", "-3352", "+15113"},           // southern hemisphere
		{"+363047-0640916", "+363047", "-0640916"},   // ±DDMMSS±DDDMMSS
		{"+00", "", ""},                              // too short to split
		{"", "", ""},
	}
	for _, tt := range tests {
		lat, lon := splitCoordinates(tt.coords)
		if lat != tt.wantLat || lon != tt.wantLon {
			t.Errorf("splitCoordinates(%q) = (%q, %q), want (%q, %q)",
				tt.coords, lat, lon, tt.wantLat, tt.wantLon)
		}
	}
}

func TestMergeMetadata(t *testing.T) {
	zones := map[string]*model.Zone{
		"Asia/Seoul": {Name: "Asia/Seoul"},
		"Etc/UTC":    {Name: "Etc/UTC"},
	}
	meta := map[string]Metadata{
		"Asia/Seoul":    {CountryCode: "KR", Coordinates: "+3733+12658"},
		"Europe/Berlin": {CountryCode: "DE", Coordinates: "+5230+01322"}, // no matching zone
	}

	MergeMetadata(zones, meta, NewNopLogger())

	seoul := zones["Asia/Seoul"]
	if seoul.CountryCode != "KR" {
		t.Errorf("CountryCode = %q, want %q", seoul.CountryCode, "KR")
	}
	if seoul.Latitude != "+3733" || seoul.Longitude != "+12658" {
		t.Errorf("coordinates = (%q, %q), want (+3733, +12658)", seoul.Latitude, seoul.Longitude)
	}

	// Zones without a metadata record keep empty defaults.
	utc := zones["Etc/UTC"]
	if utc.CountryCode != "" || utc.Latitude != "" || utc.Longitude != "" {
		t.Errorf("Etc/UTC unexpectedly gained metadata: %+v", utc)
	}

	// Metadata-only entries must not create zones.
	if _, ok := zones["Europe/Berlin"]; ok {
		t.Error("metadata-only entry created a zone")
	}
}
