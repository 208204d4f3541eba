// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/registry"
)

const surveyPreview = "Survey Preview"

// Load reads both forms into a fresh registry and per-position ballots.
// Referenda and joint tickets from cfg are registered between the two reads
// so ballots can name them.
func Load(nomineesPath, ballotsPath string, cfg Config, logger *slog.Logger) (*registry.Registry, map[string][]*models.Ballot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := registry.New(logger)

	nominees, err := os.Open(nomineesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open nominees: %w", err)
	}
	defer nominees.Close()

	if err := ReadCandidates(nominees, reg, cfg, logger); err != nil {
		return nil, nil, err
	}
	if err := Declare(reg, cfg, logger); err != nil {
		return nil, nil, err
	}

	votes, err := os.Open(ballotsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open ballots: %w", err)
	}
	defer votes.Close()

	ballots, err := ReadBallots(votes, reg, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return reg, ballots, nil
}

// ReadCandidates adds one candidate per nominee row. A repeated applicant
// overwrites their earlier positions and info.
func ReadCandidates(r io.Reader, reg *registry.Registry, cfg Config, logger *slog.Logger) error {
	rows, err := readRows(r)
	if err != nil {
		return fmt.Errorf("read nominees: %w", err)
	}

	added := 0
	for i, row := range rows {
		if i < cfg.CandidateStartRow {
			continue
		}
		field := fieldReader(row)

		name := strings.TrimSpace(field(cfg.FirstNameColumn) + " " + field(cfg.SurnameColumn))
		if field(cfg.TypeColumn) == surveyPreview {
			logger.Info("nominee discarded, survey preview", "name", name)
			continue
		}
		if name == "" {
			logger.Warn("nominee discarded, no name", "row", i+1)
			continue
		}

		email := field(cfg.EmailColumn)
		student := field(cfg.StudentColumn) == "Yes"
		roles := field(cfg.PositionsColumn)
		if roles == "" {
			logger.Info("application discarded, no roles",
				"name", name, "student", student, "email", email)
			continue
		}

		positions := splitList(roles)
		if cfg.MaxPositions > 0 && len(positions) > cfg.MaxPositions {
			positions = positions[:cfg.MaxPositions]
		}
		for j, p := range positions {
			if renamed, ok := cfg.Renames[p]; ok {
				positions[j] = renamed
			}
		}

		c := &models.Candidate{
			Name:      name,
			Positions: positions,
			Info:      models.NewInfo([]string{email}, student, parseTerms(field(cfg.TermsColumn))),
		}

		existing, ok := reg.Get(name)
		if !ok {
			if err := reg.Add(c); err != nil {
				return fmt.Errorf("nominee row %d: %w", i+1, err)
			}
			added++
			continue
		}

		logger.Info("multiple applications", "name", name)
		changed := false
		if !slices.Equal(existing.Positions, c.Positions) {
			logger.Info("different positions in new application, using these",
				"name", name, "old", existing.Positions, "new", c.Positions)
			changed = true
		}
		if !infoEqual(existing.Info, c.Info) {
			logger.Info("different info in new application, using this", "name", name)
			changed = true
		}
		if !changed {
			logger.Info("no relevant differences from previous application", "name", name)
			continue
		}
		if err := reg.Replace(c); err != nil {
			return fmt.Errorf("nominee row %d: %w", i+1, err)
		}
	}

	logger.Info("candidates read", "added", added, "total", reg.Len())
	return nil
}

// Declare registers the referendum items and joint tickets from cfg
func Declare(reg *registry.Registry, cfg Config, logger *slog.Logger) error {
	for _, ref := range cfg.Referenda {
		err := reg.Add(&models.Candidate{
			Name:      ref.Candidate,
			Positions: []string{ref.Position},
			Info:      models.NewInfo(nil, true, nil),
		})
		if err != nil {
			return fmt.Errorf("referendum %s: %w", ref.Position, err)
		}
		logger.Info("referendum registered", "position", ref.Position, "candidate", ref.Candidate)
	}

	for _, joint := range cfg.Joints {
		if _, err := reg.AddJoint(joint); err != nil {
			return fmt.Errorf("joint ticket %s: %w", joint.Name, err)
		}
	}
	return nil
}

// ReadBallots builds per-position ballots from the voting form. An abstention
// or an empty cell skips that position for the voter; an unknown or repeated
// name is fatal.
func ReadBallots(r io.Reader, reg *registry.Registry, cfg Config, logger *slog.Logger) (map[string][]*models.Ballot, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, fmt.Errorf("read ballots: %w", err)
	}

	if cfg.VotingStartRow < len(rows) {
		rows = rows[cfg.VotingStartRow:]
	} else {
		rows = nil
	}
	if cfg.BallotFilter != nil {
		if rows, err = cfg.BallotFilter(rows); err != nil {
			return nil, fmt.Errorf("filter ballots: %w", err)
		}
	}

	ballots := make(map[string][]*models.Ballot, len(cfg.PositionColumns))
	rejected := 0
	for i, row := range rows {
		field := fieldReader(row)

		if cfg.FinishedColumn >= 0 && field(cfg.FinishedColumn) != "TRUE" {
			logger.Info("ballot rejected, incomplete", "row", i+1)
			rejected++
			continue
		}

		for _, pc := range cfg.PositionColumns {
			cell := field(pc.Column)
			if cell == "" {
				continue
			}
			choices := splitList(cell)
			if slices.Contains(choices, cfg.Abstain) {
				continue
			}
			ballot, err := reg.BuildBallot(choices)
			if err != nil {
				return nil, fmt.Errorf("ballot row %d, %s: %w", i+1, pc.Position, err)
			}
			ballots[pc.Position] = append(ballots[pc.Position], ballot)
		}
	}

	logger.Info("ballots read", "positions", len(ballots), "rejected_rows", rejected)
	return ballots, nil
}

func readRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

// fieldReader returns a trimmed cell accessor that tolerates short rows
func fieldReader(row []string) func(int) string {
	return func(col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseTerms turns "Term 1,Term 2" into [1 2]
func parseTerms(s string) []int {
	var terms []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(part, "Term")))
		if err != nil {
			continue
		}
		if !slices.Contains(terms, n) {
			terms = append(terms, n)
		}
	}
	return terms
}

func infoEqual(a, b models.Info) bool {
	return slices.Equal(a.Emails, b.Emails) &&
		a.WillBeStudent == b.WillBeStudent &&
		slices.Equal(a.AvailableTerms, b.AvailableTerms) &&
		a.Eligible == b.Eligible
}
