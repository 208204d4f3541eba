// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"

	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/reconcile"
	"github.com/Atzphere/VOC-Elections/registry"
)

// Build turns an engine result into an immutable run report
func Build(res *reconcile.Result, method, inputsHash string) *models.RunReport {
	rep := &models.RunReport{
		ID:         uuid.NewString(),
		ComputedAt: time.Now().UTC(),
		Method:     method,
		MaxRank:    res.MaxRank,
		Rounds:     res.Rounds,
		InputsHash: inputsHash,
		Positions:  make([]models.PositionReport, 0, len(res.Outcomes)),
		Problems:   make([]models.ProblemReport, 0, len(res.Problems)),
	}

	for _, o := range res.Outcomes {
		pr := models.PositionReport{
			Position:           o.Position,
			Seats:              o.Seats,
			Filled:             len(o.Winners),
			State:              o.State,
			Winners:            make([]models.WinnerReport, 0, len(o.Winners)),
			OriginalCandidates: o.Original,
		}
		for _, w := range o.Winners {
			pr.Winners = append(pr.Winners, models.WinnerReport{
				Name:      w.Candidate.Name,
				Emails:    w.Candidate.Info.Emails,
				Rank:      w.Rank,
				Round:     w.Round,
				Threshold: w.Threshold,
				Joint:     w.Candidate.Joint,
			})
		}
		rep.Positions = append(rep.Positions, pr)
	}

	for _, p := range res.Problems {
		rep.Problems = append(rep.Problems, models.ProblemReport{
			Kind:       p.Kind,
			Position:   p.Position,
			Round:      p.Round,
			Detail:     p.Detail,
			Candidates: p.Candidates,
		})
	}
	return rep
}

// InputsHash fingerprints the registered candidates and the ballots so two
// runs over the same inputs can be recognised. Positions are hashed in sorted
// order; candidates and ballots keep their input order.
func InputsHash(reg *registry.Registry, ballots map[string][]*models.Ballot) string {
	h := sha256.New()
	for _, c := range reg.Candidates() {
		fmt.Fprintf(h, "c\x00%s\x00%s\x00%t\n", c.Name, strings.Join(c.Positions, "\x1f"), c.Joint)
	}

	positions := make([]string, 0, len(ballots))
	for p := range ballots {
		positions = append(positions, p)
	}
	slices.Sort(positions)

	for _, p := range positions {
		for _, b := range ballots[p] {
			names := make([]string, 0, len(b.Ranked))
			for _, c := range b.Ranked {
				names = append(names, c.Name)
			}
			fmt.Fprintf(h, "b\x00%s\x00%s\n", p, strings.Join(names, "\x1f"))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WriteText prints a human-readable summary of rep
func WriteText(w io.Writer, rep *models.RunReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s (%s, %s over %s)\n",
		rep.ID, rep.Method,
		english.Plural(rep.Rounds, "round", ""),
		english.Plural(rep.MaxRank, "preference level", ""))

	for _, p := range rep.Positions {
		fmt.Fprintf(&b, "\n=== %s: %d of %s filled (%s) ===\n",
			p.Position, p.Filled, english.Plural(p.Seats, "seat", ""), p.State)
		if len(p.Winners) == 0 {
			b.WriteString("  no winners\n")
		}
		for _, win := range p.Winners {
			fmt.Fprintf(&b, "  %s", win.Name)
			if win.Rank > 0 {
				fmt.Fprintf(&b, ", %s choice", humanize.Ordinal(win.Rank))
			}
			fmt.Fprintf(&b, ", %s round", humanize.Ordinal(win.Round))
			if len(win.Emails) > 0 {
				fmt.Fprintf(&b, " <%s>", strings.Join(win.Emails, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(rep.Problems) == 0 {
		b.WriteString("\nNo problems.\n")
	} else {
		fmt.Fprintf(&b, "\n%s needing review:\n", english.Plural(len(rep.Problems), "problem", ""))
		for _, pr := range rep.Problems {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", pr.Kind, pr.Position, pr.Detail)
			if len(pr.Candidates) > 0 {
				fmt.Fprintf(&b, "    candidates: %s\n", english.WordSeries(pr.Candidates, "and"))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
