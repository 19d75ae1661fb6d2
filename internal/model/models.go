package model

// Transition represents one contiguous validity period in a zone's history.
// All fields preserve the raw tzdata text; no offset arithmetic is done here.
type Transition struct {
	Until  string // IANA UNTIL value, tokens re-joined with single spaces; "" for the open-ended last period
	Offset string // UTC offset text during this period (e.g. "8:30", "-5:00")
	Abbr   string // Abbreviation or format pattern (may contain %s or %z)
	Rule   string // Name of the DST rule set in effect; "" when the source column is "-"
}

// Zone represents a named time zone with its full transition history plus
// metadata merged in from zone1970.tab and windowsZones.xml.
type Zone struct {
	Name         string
	CountryCode  string // ISO 3166 code, "" until metadata is merged
	Latitude     string // raw signed coordinate half, e.g. "+3733"
	Longitude    string // raw signed coordinate half, e.g. "+12658"
	Comment      string
	Transitions  []Transition // ordered as they appear in the source; empty for link-only placeholders
	Aliases      []string     // alternative names resolved via Link records, in encounter order
	WindowsNames []string     // Windows display names mapped to this zone
}

// Rule is a single DST policy record within a named rule set.
// Values stay textual; consumers interpret them when computing DST.
type Rule struct {
	From   string // FROM year
	To     string // TO year, or "only"/"max"
	Type   string // TYPE column, reserved (usually "-")
	In     string // month
	On     string // day
	At     string // time of day
	Save   string // amount of time added
	Letter string // abbreviation letter(s), "" when the column is omitted
}

// WindowsMapping is the bidirectional table built from windowsZones.xml.
// It is retained as first-class output next to the zone table; the per-zone
// WindowsNames field is a convenience derived from it.
type WindowsMapping struct {
	WindowsToIANA map[string][]string // Windows name -> IANA zone names, in document order
	IANAToWindows map[string][]string // IANA zone name -> Windows names, in document order
}

// NewWindowsMapping returns an empty mapping ready for inserts.
func NewWindowsMapping() *WindowsMapping {
	return &WindowsMapping{
		WindowsToIANA: make(map[string][]string),
		IANAToWindows: make(map[string][]string),
	}
}

// Bundle is the complete normalized model produced by one build run,
// ready for serialization to JSON or SQLite.
type Bundle struct {
	Version string            // tzdata release, e.g. "2025a"; "unknown" when the version file is missing
	Zones   map[string]*Zone  // keyed by canonical zone name
	Rules   map[string][]Rule // keyed by rule set name; record order preserved
	Windows *WindowsMapping
}
