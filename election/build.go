// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"log/slog"

	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/registry"
)

// Spec declares one position to elect
type Spec struct {
	Position string
	Seats    int
}

// BuildAll creates one election per spec, in spec order, drawing each pool
// from the registry. Positions with no ballots still get an election so an
// uncontested candidate can win it.
func BuildAll(reg *registry.Registry, specs []Spec, ballots map[string][]*models.Ballot, evaluator Evaluator, logger *slog.Logger) []*PositionElection {
	if logger == nil {
		logger = slog.Default()
	}

	elections := make([]*PositionElection, 0, len(specs))
	for _, spec := range specs {
		pool := reg.ForPosition(spec.Position)
		e := New(spec.Position, pool, ballots[spec.Position], spec.Seats, evaluator, WithLogger(logger))
		logger.Info("election built",
			"position", spec.Position,
			"seats", e.Seats,
			"candidates", Names(pool),
			"ballots", len(ballots[spec.Position]),
		)
		elections = append(elections, e)
	}
	return elections
}
