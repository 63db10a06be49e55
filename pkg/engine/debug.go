// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
	log "github.com/sirupsen/logrus"
)

// ErrCommitment indicates a proof whose tables do not match its commitment.
var ErrCommitment = errors.New("tables do not match commitment")

// Debug is an engine which checks every constraint and every bus directly.
// Its proofs are not succinct: they simply carry the tables themselves.
type Debug struct {
	registry *bus.Registry
}

// NewDebug constructs a debug engine, using a given registry for reporting
// bus names.
func NewDebug(registry *bus.Registry) *Debug {
	return &Debug{registry}
}

// Prove implementation for Engine interface.  This checks the tables against
// their chips, including exact balance of every bus, before committing to
// them.
func (p *Debug) Prove(chips []Chip, traces []*trace.Table) (*Proof, error) {
	stats := util.NewPerfStats()
	//
	if err := p.check(chips, traces); err != nil {
		return nil, err
	}
	//
	if err := bus.Balance(p.registry, Participants(chips, traces)); err != nil {
		return nil, fmt.Errorf("witness rejected: %w", err)
	}
	//
	proof := &Proof{traces, Commit(names(chips), traces)}
	//
	stats.Log("Proving %d chips", len(chips))
	log.Infof("proof generated (commitment %s)", proof.Commitment)
	//
	return proof, nil
}

// Verify implementation for Engine interface.  This checks the tables against
// their commitment and their chips, and checks that the log-derivative sum of
// every bus vanishes for challenges drawn from the commitment.
func (p *Debug) Verify(chips []Chip, proof *Proof) error {
	stats := util.NewPerfStats()
	//
	if err := p.check(chips, proof.Traces); err != nil {
		return err
	} else if Commit(names(chips), proof.Traces) != proof.Commitment {
		return ErrCommitment
	}
	//
	var (
		alpha = Challenge(proof.Commitment, "alpha")
		beta  = Challenge(proof.Commitment, "beta")
	)
	//
	sums, err := bus.LogUp(Participants(chips, proof.Traces), alpha, beta)
	if err != nil {
		return fmt.Errorf("proof rejected: %w", err)
	}
	//
	for _, id := range slices.Sorted(maps.Keys(sums)) {
		if sum := sums[id]; !sum.IsZero() {
			return fmt.Errorf("proof rejected: bus %s does not balance", p.registry.Name(id))
		}
	}
	//
	stats.Log("Verifying %d chips", len(chips))
	log.Infof("proof verified (commitment %s)", proof.Commitment)
	//
	return nil
}

// check the shape of every table, the degrees of every chip, and finally that
// every constraint holds.
func (p *Debug) check(chips []Chip, traces []*trace.Table) error {
	if len(chips) != len(traces) {
		return fmt.Errorf("%d tables given for %d chips", len(traces), len(chips))
	}
	//
	for i, chip := range chips {
		if err := checkShape(chip, traces[i]); err != nil {
			return err
		} else if d := air.MaxDegree(air.Constraints(chip)); d > air.MAX_CONSTRAINT_DEGREE {
			return fmt.Errorf("%s has constraint of degree %d", chip.Name(), d)
		} else if err := bus.Validate(chip.Name(), chip); err != nil {
			return err
		}
		//
		coverage, err := air.Check(chip, traces[i], Preprocessed(chip))
		if err != nil {
			return fmt.Errorf("witness rejected: %w", err)
		}
		//
		log.Debugf("%s: %d rows, %d/%d constraints covered", chip.Name(), traces[i].Height(), coverage.Count(),
			coverage.Len())
	}
	//
	return nil
}

func checkShape(chip Chip, table *trace.Table) error {
	if table == nil {
		return fmt.Errorf("missing table for %s", chip.Name())
	} else if table.Width() != chip.Width() {
		return fmt.Errorf("table for %s has width %d (expected %d)", chip.Name(), table.Width(), chip.Width())
	} else if !trace.IsPowerOfTwo(table.Height()) {
		return fmt.Errorf("table for %s has height %d (not a power of two)", chip.Name(), table.Height())
	}
	//
	if prep := Preprocessed(chip); prep != nil && prep.Height() != table.Height() {
		return fmt.Errorf("table for %s has height %d (expected %d)", chip.Name(), table.Height(), prep.Height())
	}
	//
	return nil
}

func names(chips []Chip) []string {
	names := make([]string, len(chips))
	//
	for i, chip := range chips {
		names[i] = chip.Name()
	}
	//
	return names
}
