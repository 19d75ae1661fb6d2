package tzdata

import (
	"fmt"
	"strings"

	"tzbundle/internal/model"
)

// noRule is the source literal meaning a period observes no DST rule set.
const noRule = "-"

// parseZoneRecord handles a "Zone" line:
//
//	Zone  NAME  STDOFF  RULES  FORMAT  [UNTIL...]
//
// It creates the zone on first sight, appends the transition, and returns
// the zone name so the caller can track it as the current zone.
func (p *Parser) parseZoneRecord(fields []string) (string, error) {
	if len(fields) < 5 {
		return "", fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}

	name := fields[1]
	t := newTransition(fields[2:])

	zone, ok := p.zones[name]
	if !ok {
		zone = &model.Zone{Name: name}
		p.zones[name] = zone
	}
	zone.Transitions = append(zone.Transitions, t)
	return name, nil
}

// parseContinuationRecord handles an unnamed line inside a Zone block:
//
//	STDOFF  RULES  FORMAT  [UNTIL...]
//
// The keyword and name are implicitly those of the current zone.
func (p *Parser) parseContinuationRecord(zoneName string, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	zone := p.zones[zoneName]
	zone.Transitions = append(zone.Transitions, newTransition(fields))
	return nil
}

// newTransition builds a transition from [STDOFF, RULES, FORMAT, UNTIL...].
// The "-" rule placeholder is normalized to the empty string here, exactly
// once; the UNTIL tokens are re-joined with single spaces regardless of
// the original column alignment.
func newTransition(fields []string) model.Transition {
	rule := fields[1]
	if rule == noRule {
		rule = ""
	}
	return model.Transition{
		Offset: fields[0],
		Rule:   rule,
		Abbr:   fields[2],
		Until:  strings.Join(fields[3:], " "),
	}
}
