package tzdata

import (
	"fmt"

	"tzbundle/internal/model"
)

// parseLinkRecord handles a "Link" line:
//
//	Link  TARGET  LINK-NAME
//
// Link records may appear interleaved with Zone and Rule records and may
// reference zones defined later (or never). They are only collected here;
// resolution happens in ResolveLinks after every file has been parsed.
// Collecting a link does not disturb the current-zone state.
func (p *Parser) parseLinkRecord(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	p.links = append(p.links, link{Target: fields[1], Alias: fields[2]})
	return nil
}

// ResolveLinks attaches every collected alias to its target zone, in the
// order the Link records were encountered. A target that was never the
// subject of a Zone record gets a placeholder zone with no transitions;
// the tzdata sources contain a handful of such dangling references and
// they are warnings, not errors.
//
// ResolveLinks must run only after all input files have been parsed.
func (p *Parser) ResolveLinks() {
	for _, l := range p.links {
		zone, ok := p.zones[l.Target]
		if !ok {
			p.logger.Warn("link target has no zone record, creating placeholder",
				"alias", l.Alias, "target", l.Target)
			zone = &model.Zone{Name: l.Target}
			p.zones[l.Target] = zone
		}
		zone.Aliases = append(zone.Aliases, l.Alias)
	}
	p.links = nil
}
