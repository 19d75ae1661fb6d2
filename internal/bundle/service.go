// Package bundle orchestrates the parse pipeline that turns an extracted
// tzdata release into a model.Bundle ready for serialization.
package bundle

import (
	"fmt"
	"path/filepath"
	"time"

	"tzbundle/internal/model"
	"tzbundle/internal/tzdata"
)

// Result is the output of one build run: the normalized bundle plus the
// run's identity, recorded alongside the data in every output format.
type Result struct {
	Bundle  *model.Bundle
	BuildID string
	BuiltAt time.Time
}

// Service coordinates the parsing stages. The ordering contract matters:
// links are resolved only after every region file has been parsed, and
// metadata and Windows-name attachment each run over the finished zone
// table.
type Service struct {
	logger tzdata.Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(logger tzdata.Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{logger: logger, clock: clock, idgen: idgen}
}

// Build parses the tzdata release in inputDir and returns the normalized
// bundle. The only fatal condition is a missing input directory; every
// per-file and per-line defect is logged and the largest possible valid
// model is produced from whatever inputs exist.
func (s *Service) Build(inputDir string) (*Result, error) {
	buildID := s.idgen.New()
	builtAt := s.clock.Now()
	s.logger.Info("starting bundle build", "build_id", buildID, "input_dir", inputDir)

	version := tzdata.ReadVersion(inputDir, s.logger)

	parser := tzdata.NewParser(s.logger)
	if err := parser.ParseDir(inputDir); err != nil {
		return nil, fmt.Errorf("parsing tzdata files: %w", err)
	}
	parser.ResolveLinks()

	zones := parser.Zones()
	meta := tzdata.LoadMetadata(inputDir, s.logger)
	tzdata.MergeMetadata(zones, meta, s.logger)

	windows := tzdata.LoadWindowsZones(filepath.Join(inputDir, tzdata.WindowsZonesFile), s.logger)
	tzdata.AttachWindowsNames(zones, windows, s.logger)

	s.logger.Info("bundle build complete",
		"build_id", buildID,
		"version", version,
		"zones", len(zones),
		"rule_sets", len(parser.Rules()),
		"windows_names", len(windows.WindowsToIANA),
	)

	return &Result{
		Bundle: &model.Bundle{
			Version: version,
			Zones:   zones,
			Rules:   parser.Rules(),
			Windows: windows,
		},
		BuildID: buildID,
		BuiltAt: builtAt,
	}, nil
}
