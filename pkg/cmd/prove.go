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
package cmd

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/chip/merkleroot"
	"github.com/consensys/go-keccak-machine/pkg/engine"
	"github.com/consensys/go-keccak-machine/pkg/machine"
	"github.com/consensys/go-keccak-machine/pkg/util"
	"github.com/consensys/go-keccak-machine/pkg/util/termio"
	"github.com/spf13/cobra"
)

var proveCmd = &cobra.Command{
	Use:   "prove [flags]",
	Short: "Prove and verify randomly generated Merkle root computations.",
	Long: `Prove and verify randomly generated Merkle root computations (and, optionally,
	memory-backed hashes) using the debug engine.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			m     = getMachine(cmd)
			seed  = getUint64(cmd, "seed")
			rng   = rand.New(rand.NewPCG(seed, seed))
			ops   = randomOperations(rng, m.Config().Depth, getUint(cmd, "paths"), getUint(cmd, "hashes"),
				getUint(cmd, "hash-bytes"))
			e     = engine.NewDebug(m.Registry())
			stats = util.NewPerfStats()
		)
		//
		proof, err := m.Prove(e, ops)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		stats.Log("Proving")
		//
		if err := m.Verify(e, proof); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		width := getTextWidth(cmd)
		printChips(m, proof, width)
		printBuses(m, proof, width)
		//
		for i, path := range ops.Paths {
			root := path.Root(merkleroot.Keccak256{})
			fmt.Printf("root[%d] (leaf %d) = 0x%s\n", i, path.LeafIndex, hex.EncodeToString(root[:]))
		}
		//
		fmt.Printf("commitment = 0x%s\n", proof.Commitment)
	},
}

// Generate random root computations, each over its own random tree, followed
// by memory-backed hashes over consecutive memory regions.
func randomOperations(rng *rand.Rand, depth int, paths, hashes, hashBytes uint) machine.Operations {
	var ops machine.Operations
	//
	for i := uint(0); i < paths; i++ {
		leaves := make([]merkleroot.Digest, 1<<depth)
		//
		for j := range leaves {
			randomFill(rng, leaves[j][:])
		}
		//
		ops.Paths = append(ops.Paths, machine.NewMerkleOp(leaves, rng.Uint64N(uint64(len(leaves)))))
	}
	//
	for i := uint(0); i < hashes; i++ {
		data := make([]byte, hashBytes)
		randomFill(rng, data)
		//
		ops.Hashes = append(ops.Hashes, machine.Hash{
			Timestamp: uint32(i + 1),
			Addr:      uint32(i * hashBytes),
			Data:      data,
		})
	}
	//
	return ops
}

func randomFill(rng *rand.Rand, bytes []byte) {
	for i := range bytes {
		bytes[i] = byte(rng.Uint32())
	}
}

func printChips(m *machine.Machine, proof *engine.Proof, width uint) {
	var (
		chips = m.Chips()
		tp    = termio.NewTablePrinter(5, uint(len(chips))+1)
	)
	//
	tp.SetRow(0, "chip", "width", "height", "constraints", "degree")
	//
	for i, chip := range chips {
		constraints := air.Constraints(chip)
		tp.SetRow(uint(i)+1, chip.Name(), fmt.Sprint(chip.Width()), fmt.Sprint(proof.Traces[i].Height()),
			fmt.Sprint(len(constraints)), fmt.Sprint(air.MaxDegree(constraints)))
	}
	//
	tp.SetMaxWidths(width / 5)
	tp.AnsiEscapes(termio.IsTerminal())
	tp.Print(os.Stdout)
}

func printBuses(m *machine.Machine, proof *engine.Proof, width uint) {
	var (
		traffic = bus.Summarise(m.Registry(), engine.Participants(m.Chips(), proof.Traces))
		tp      = termio.NewTablePrinter(3, uint(len(traffic))+1)
	)
	//
	tp.SetRow(0, "bus", "sends", "receives")
	//
	for i, t := range traffic {
		tp.SetRow(uint(i)+1, m.Registry().Name(t.Bus), fmt.Sprint(t.Sends), fmt.Sprint(t.Receives))
	}
	//
	tp.SetMaxWidths(width / 3)
	tp.AnsiEscapes(termio.IsTerminal())
	tp.Print(os.Stdout)
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().Uint64("seed", 0, "seed for generating random inputs")
	proveCmd.Flags().Uint("paths", 1, "number of Merkle root computations")
	proveCmd.Flags().Uint("hashes", 0, "number of memory-backed hashes")
	proveCmd.Flags().Uint("hash-bytes", 200, "length of each memory-backed hash")
}
