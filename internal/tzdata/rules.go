package tzdata

import (
	"fmt"

	"tzbundle/internal/model"
)

// parseRuleRecord handles a "Rule" line:
//
//	Rule  NAME  FROM  TO  TYPE  IN  ON  AT  SAVE  [LETTER/S]
//
// The record is appended to the named rule set, creating the set on first
// sight. A rule name may be referenced by a zone before or after the set is
// defined; resolution is by name lookup, never by parse order. The LETTER
// column is optional and defaults to empty.
func (p *Parser) parseRuleRecord(fields []string) error {
	if len(fields) < 9 {
		return fmt.Errorf("expected at least 9 fields, got %d", len(fields))
	}

	name := fields[1]
	rule := model.Rule{
		From: fields[2],
		To:   fields[3],
		Type: fields[4],
		In:   fields[5],
		On:   fields[6],
		At:   fields[7],
		Save: fields[8],
	}
	if len(fields) > 9 {
		rule.Letter = fields[9]
	}
	p.rules[name] = append(p.rules[name], rule)
	return nil
}
