// Package tzdata parses the text files of an extracted IANA time zone
// database release into a normalized in-memory model.
//
// The source grammar is line-oriented: "Zone" blocks define zones and their
// transitions (with unnamed continuation lines), "Rule" lines define named
// DST rule sets, and "Link" lines define aliases. Parsing is best-effort:
// a malformed line is logged and skipped, never fatal to the file or run.
package tzdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tzbundle/internal/model"
)

// RegionFiles lists the tzdata files that carry Zone/Rule/Link records,
// in the order they are processed.
var RegionFiles = []string{
	"africa", "antarctica", "asia", "australasia", "europe",
	"northamerica", "southamerica", "etcetera", "backward", "backzone",
}

// Record keywords recognized in column one.
const (
	keywordZone = "Zone"
	keywordRule = "Rule"
	keywordLink = "Link"
)

// link is one alias -> target pair from a Link record. Pairs are kept in
// encounter order and consumed exactly once by ResolveLinks.
type link struct {
	Alias  string
	Target string
}

// Parser accumulates zones, rules and links across input files.
// It is not safe for concurrent use; the pipeline is single-threaded.
type Parser struct {
	zones  map[string]*model.Zone
	rules  map[string][]model.Rule
	links  []link
	logger Logger
}

// NewParser returns a Parser ready to process files.
func NewParser(logger Logger) *Parser {
	return &Parser{
		zones:  make(map[string]*model.Zone),
		rules:  make(map[string][]model.Rule),
		logger: logger,
	}
}

// Zones returns the zone table built so far.
func (p *Parser) Zones() map[string]*model.Zone { return p.zones }

// Rules returns the rule table built so far.
func (p *Parser) Rules() map[string][]model.Rule { return p.rules }

// ParseDir processes every region file found in dir. A missing file is
// logged and contributes nothing. The only returned error is a missing or
// unreadable input directory, which is a precondition violation.
func (p *Parser) ParseDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", dir)
	}

	for _, name := range RegionFiles {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			p.logger.Warn("missing tzdata file", "file", name)
			continue
		}
		err = p.ParseFile(name, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseFile scans one tzdata file and feeds every record into the
// accumulated tables. The "zone currently being continued" state lives in
// this function so it can never leak across files: a continuation line in
// one file cannot attach to a zone defined in another.
//
// The returned error only reflects a failed read of the underlying stream;
// per-line defects are logged with file and line context and skipped.
func (p *Parser) ParseFile(name string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		lineNumber  int
		currentZone string
	)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case keywordZone:
			zoneName, err := p.parseZoneRecord(fields)
			if err != nil {
				p.logger.Warn("skipping malformed zone record",
					"file", name, "line", lineNumber, "error", err)
				continue
			}
			currentZone = zoneName

		case keywordRule:
			if err := p.parseRuleRecord(fields); err != nil {
				p.logger.Warn("skipping malformed rule record",
					"file", name, "line", lineNumber, "error", err)
			}

		case keywordLink:
			if err := p.parseLinkRecord(fields); err != nil {
				p.logger.Warn("skipping malformed link record",
					"file", name, "line", lineNumber, "error", err)
			}

		default:
			if currentZone == "" {
				p.logger.Warn("continuation line without a current zone",
					"file", name, "line", lineNumber)
				continue
			}
			if err := p.parseContinuationRecord(currentZone, fields); err != nil {
				p.logger.Warn("skipping malformed continuation record",
					"file", name, "line", lineNumber, "zone", currentZone, "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}
