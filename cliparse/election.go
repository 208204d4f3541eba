// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Atzphere/VOC-Elections/election"
	"github.com/Atzphere/VOC-Elections/ingest"
	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/verify"
)

var (
	ErrNoPositions       = errors.New("election defines no positions")
	ErrDuplicatePosition = errors.New("position defined twice")
	ErrMissingColumn     = errors.New("position has no ballot column")
)

// PositionConfig is one position on the voting form
type PositionConfig struct {
	Name   string `yaml:"name"`
	Seats  int    `yaml:"seats"`
	Column int    `yaml:"column"`
}

// ReferendumConfig is a single-item approve/reject vote on the voting form
type ReferendumConfig struct {
	Position  string `yaml:"position"`
	Candidate string `yaml:"candidate"`
	Column    int    `yaml:"column"`
}

// NomineeForm overrides the nominee export layout; nil fields keep defaults
type NomineeForm struct {
	StartRow        *int `yaml:"start_row"`
	TypeColumn      *int `yaml:"type_column"`
	SurnameColumn   *int `yaml:"surname_column"`
	FirstNameColumn *int `yaml:"first_name_column"`
	EmailColumn     *int `yaml:"email_column"`
	StudentColumn   *int `yaml:"student_column"`
	TermsColumn     *int `yaml:"terms_column"`
	PositionsColumn *int `yaml:"positions_column"`
	MaxPositions    *int `yaml:"max_positions"`
}

// VotingForm overrides the voting export layout; nil fields keep defaults
type VotingForm struct {
	StartRow       *int    `yaml:"start_row"`
	FinishedColumn *int    `yaml:"finished_column"`
	Abstain        *string `yaml:"abstain"`
}

// VerificationConfig enables voter screening against the membership API.
// The API key comes from the environment, never the definition.
type VerificationConfig struct {
	APIURL              string `yaml:"api_url"`
	MemberIDColumn      int    `yaml:"member_id_column"`
	StudentNumberColumn int    `yaml:"student_number_column"`
	EndDateColumn       int    `yaml:"end_date_column"`
}

// Columns returns the voter identity columns
func (v *VerificationConfig) Columns() verify.Columns {
	return verify.Columns{
		MemberID:      v.MemberIDColumn,
		StudentNumber: v.StudentNumberColumn,
		EndDate:       v.EndDateColumn,
	}
}

// ElectionConfig is the YAML election definition
type ElectionConfig struct {
	Method       string               `yaml:"method"`
	MaxRank      int                  `yaml:"max_rank"`
	Positions    []PositionConfig     `yaml:"positions"`
	JointTickets []models.JointTicket `yaml:"joint_tickets"`
	Referenda    []ReferendumConfig   `yaml:"referenda"`
	Renames      map[string]string    `yaml:"renames"`
	Nominees     NomineeForm          `yaml:"nominees"`
	Voting       VotingForm           `yaml:"voting"`
	Verification *VerificationConfig  `yaml:"verification"`
}

// LoadElectionConfig reads and validates the definition at path
func LoadElectionConfig(path string) (*ElectionConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open election config: %w", err)
	}
	defer f.Close()
	return ParseElectionConfig(f)
}

// ParseElectionConfig decodes a definition. Unknown keys are rejected so a
// typo cannot silently drop a setting.
func ParseElectionConfig(r io.Reader) (*ElectionConfig, error) {
	var cfg ElectionConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode election config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks positions are unique and mapped to ballot columns
func (c *ElectionConfig) Validate() error {
	if len(c.Positions) == 0 && len(c.Referenda) == 0 {
		return ErrNoPositions
	}
	if c.MaxRank < 0 {
		return fmt.Errorf("max_rank must not be negative, got %d", c.MaxRank)
	}

	if v := c.Verification; v != nil && v.APIURL == "" {
		return fmt.Errorf("verification: %w", verify.ErrNoEndpoint)
	}

	seen := make(map[string]bool)
	check := func(name string, column int) error {
		if name == "" {
			return errors.New("position name must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicatePosition, name)
		}
		if column < 0 {
			return fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		seen[name] = true
		return nil
	}

	for _, p := range c.Positions {
		if err := check(p.Name, p.Column); err != nil {
			return err
		}
		if p.Seats < 0 {
			return fmt.Errorf("position %q: seats must not be negative", p.Name)
		}
	}
	for _, r := range c.Referenda {
		if err := check(r.Position, r.Column); err != nil {
			return err
		}
		if r.Candidate == "" {
			return fmt.Errorf("referendum %q: candidate required", r.Position)
		}
	}
	return nil
}

// Specs lists every election to hold, referenda included
func (c *ElectionConfig) Specs() []election.Spec {
	specs := make([]election.Spec, 0, len(c.Positions)+len(c.Referenda))
	for _, p := range c.Positions {
		specs = append(specs, election.Spec{Position: p.Name, Seats: p.Seats})
	}
	for _, r := range c.Referenda {
		specs = append(specs, election.Spec{Position: r.Position, Seats: 1})
	}
	return specs
}

// IngestConfig overlays the definition on ingest.DefaultConfig
func (c *ElectionConfig) IngestConfig() ingest.Config {
	cfg := ingest.DefaultConfig()

	n := c.Nominees
	setInt(&cfg.CandidateStartRow, n.StartRow)
	setInt(&cfg.TypeColumn, n.TypeColumn)
	setInt(&cfg.SurnameColumn, n.SurnameColumn)
	setInt(&cfg.FirstNameColumn, n.FirstNameColumn)
	setInt(&cfg.EmailColumn, n.EmailColumn)
	setInt(&cfg.StudentColumn, n.StudentColumn)
	setInt(&cfg.TermsColumn, n.TermsColumn)
	setInt(&cfg.PositionsColumn, n.PositionsColumn)
	// positions past the rank cap can never be matched by a threshold
	if c.MaxRank > 0 {
		cfg.MaxPositions = c.MaxRank
	}
	setInt(&cfg.MaxPositions, n.MaxPositions)

	v := c.Voting
	setInt(&cfg.VotingStartRow, v.StartRow)
	setInt(&cfg.FinishedColumn, v.FinishedColumn)
	if v.Abstain != nil {
		cfg.Abstain = *v.Abstain
	}

	cfg.Renames = c.Renames
	cfg.Joints = c.JointTickets
	for _, p := range c.Positions {
		cfg.PositionColumns = append(cfg.PositionColumns, ingest.PositionColumn{Position: p.Name, Column: p.Column})
	}
	for _, r := range c.Referenda {
		cfg.PositionColumns = append(cfg.PositionColumns, ingest.PositionColumn{Position: r.Position, Column: r.Column})
		cfg.Referenda = append(cfg.Referenda, ingest.Referendum{Position: r.Position, Candidate: r.Candidate})
	}
	return cfg
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
