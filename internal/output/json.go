// Package output serializes a bundle to the combined.json document
// consumed by downstream clients.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tzbundle/internal/model"
)

// jsonDocument is the top level of combined.json. Rules and the Windows
// mapping sit beside the zone table so consumers can compute DST status
// themselves; transitions deliberately carry no precalculated DST flag.
type jsonDocument struct {
	Timezones      map[string]jsonZone   `json:"timezones"`
	Rules          map[string][]jsonRule `json:"rules"`
	WindowsMapping map[string][]string   `json:"windows_mapping"`
	Version        string                `json:"_version"`
}

type jsonZone struct {
	CountryCode string           `json:"country_code"`
	Coordinates string           `json:"coordinates"`
	Comment     string           `json:"comment"`
	Transitions []jsonTransition `json:"transitions"`
	Aliases     []string         `json:"aliases"`
	WinNames    []string         `json:"win_names"`
}

type jsonTransition struct {
	ToUTC    string  `json:"to_utc"`
	Offset   string  `json:"offset"`
	Abbr     string  `json:"abbr"`
	RuleName *string `json:"rule_name"` // null when the zone observes no DST in this period
}

type jsonRule struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Type   string `json:"type"`
	In     string `json:"in"`
	On     string `json:"on"`
	At     string `json:"at"`
	Save   string `json:"save"`
	Letter string `json:"letter"`
}

// WriteJSON encodes the bundle as indented JSON.
func WriteJSON(w io.Writer, b *model.Bundle) error {
	doc := jsonDocument{
		Timezones:      make(map[string]jsonZone, len(b.Zones)),
		Rules:          make(map[string][]jsonRule, len(b.Rules)),
		WindowsMapping: map[string][]string{},
		Version:        b.Version,
	}
	if b.Windows != nil {
		doc.WindowsMapping = b.Windows.WindowsToIANA
	}

	for name, zone := range b.Zones {
		jz := jsonZone{
			CountryCode: zone.CountryCode,
			Coordinates: zone.Latitude + zone.Longitude,
			Comment:     zone.Comment,
			Transitions: make([]jsonTransition, 0, len(zone.Transitions)),
			Aliases:     emptyIfNil(zone.Aliases),
			WinNames:    emptyIfNil(zone.WindowsNames),
		}
		for _, t := range zone.Transitions {
			jt := jsonTransition{ToUTC: t.Until, Offset: t.Offset, Abbr: t.Abbr}
			if t.Rule != "" {
				rule := t.Rule
				jt.RuleName = &rule
			}
			jz.Transitions = append(jz.Transitions, jt)
		}
		doc.Timezones[name] = jz
	}

	for name, rules := range b.Rules {
		jrs := make([]jsonRule, 0, len(rules))
		for _, r := range rules {
			jrs = append(jrs, jsonRule(r))
		}
		doc.Rules[name] = jrs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// WriteJSONFile writes the bundle to path, creating or truncating it.
func WriteJSONFile(path string, b *model.Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteJSON(f, b); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
