package tzdata

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"tzbundle/internal/model"
)

// WindowsZonesFile is the CLDR mapping of Windows time zone names to IANA
// zone names.
const WindowsZonesFile = "windowsZones.xml"

// globalTerritory marks the default worldwide mapping for a Windows name.
// Territory-specific overrides use ISO country codes instead and are
// deliberately ignored; only the single global mapping per name is kept.
const globalTerritory = "001"

// windowsZonesDoc mirrors the parts of the CLDR supplemental document we
// read: <supplementalData><windowsZones><mapTimezones><mapZone .../>.
type windowsZonesDoc struct {
	XMLName  xml.Name      `xml:"supplementalData"`
	MapZones []mapZoneElem `xml:"windowsZones>mapTimezones>mapZone"`
}

// mapZoneElem is one <mapZone other="..." territory="..." type="..."/>
// element. The type attribute holds one or more space-separated IANA names.
type mapZoneElem struct {
	Other     string `xml:"other,attr"`
	Territory string `xml:"territory,attr"`
	Type      string `xml:"type,attr"`
}

// LoadWindowsZones reads and parses windowsZones.xml at path. A missing
// file or unparsable document is non-fatal: the condition is logged and an
// empty mapping is returned, which downstream consumers must tolerate.
func LoadWindowsZones(path string, logger Logger) *model.WindowsMapping {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("missing windows zones file", "path", path)
		return model.NewWindowsMapping()
	}
	defer f.Close()

	mapping, err := ParseWindowsZones(f)
	if err != nil {
		logger.Error("parsing windows zones file", "path", path, "error", err)
		return model.NewWindowsMapping()
	}
	if len(mapping.WindowsToIANA) == 0 {
		logger.Warn("windows zones file contains no global mappings", "path", path)
	}
	return mapping
}

// ParseWindowsZones builds the bidirectional Windows<->IANA mapping from a
// CLDR windowsZones document. Only mapZone elements whose territory is the
// "001" global sentinel contribute; both directions preserve document
// order, and duplicates are benign one-to-many mappings.
func ParseWindowsZones(r io.Reader) (*model.WindowsMapping, error) {
	var doc windowsZonesDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	mapping := model.NewWindowsMapping()
	for _, mz := range doc.MapZones {
		if mz.Territory != globalTerritory || mz.Other == "" {
			continue
		}
		for _, ianaName := range strings.Fields(mz.Type) {
			mapping.WindowsToIANA[mz.Other] = append(mapping.WindowsToIANA[mz.Other], ianaName)
			mapping.IANAToWindows[ianaName] = append(mapping.IANAToWindows[ianaName], mz.Other)
		}
	}
	return mapping, nil
}

// AttachWindowsNames copies the Windows names for each zone onto the zone
// itself. A zone without a direct mapping falls through to its aliases in
// order and takes the first alias that has one; the CLDR data keys off
// canonical and alias names inconsistently, so both must be checked. Zones
// with no match at all keep an empty list.
func AttachWindowsNames(zones map[string]*model.Zone, mapping *model.WindowsMapping, logger Logger) {
	attached := 0
	for name, zone := range zones {
		if names, ok := mapping.IANAToWindows[name]; ok {
			zone.WindowsNames = append([]string(nil), names...)
			attached++
			continue
		}
		for _, alias := range zone.Aliases {
			if names, ok := mapping.IANAToWindows[alias]; ok {
				zone.WindowsNames = append([]string(nil), names...)
				attached++
				break
			}
		}
	}
	logger.Info("attached windows names", "matched", attached, "zones", len(zones))
}
