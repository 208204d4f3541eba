// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"errors"
	"fmt"

	"github.com/Atzphere/VOC-Elections/election"
	"github.com/Atzphere/VOC-Elections/models"
)

var ErrUnknownMethod = errors.New("unknown tabulation method")

// ForMethod returns the evaluator registered under name. An empty name
// selects preferential block voting.
func ForMethod(name string) (election.Evaluator, error) {
	switch name {
	case "", models.MethodPBV:
		return PreferentialBlockVoting{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}
