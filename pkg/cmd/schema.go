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
	"fmt"
	"os"
	"slices"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/engine"
	"github.com/consensys/go-keccak-machine/pkg/machine"
	"github.com/consensys/go-keccak-machine/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [flags] [chip...]",
	Short: "Print the column layout of chips.",
	Long: `Print the column layout (and optionally the constraints and interactions) of
	the given chips, or of every chip when none are given.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			m            = getMachine(cmd)
			width        = getTextWidth(cmd)
			constraints  = getFlag(cmd, "constraints")
			interactions = getFlag(cmd, "interactions")
			found        = 0
		)
		//
		if filename := getString(cmd, "dbml"); filename != "" {
			writeSchemaFile(m, filename)
			return
		}
		//
		for i, chip := range m.Chips() {
			if len(args) > 0 && !slices.Contains(args, chip.Name()) {
				continue
			}
			//
			found++
			//
			printSchema(chip, m.Columns()[i], width)
			//
			if constraints {
				printConstraints(chip, width)
			}
			//
			if interactions {
				printInteractions(m, chip, width)
			}
		}
		//
		if found < len(args) {
			fmt.Printf("unknown chip (expected one of %s)\n", chipNames(m))
			os.Exit(2)
		}
	},
}

// Print the columns of a chip as a grid fitting within the given width.
func printSchema(chip engine.Chip, names []string, width uint) {
	var (
		cellWidth = uint(1)
		perRow    uint
		nrows     uint
	)
	//
	fmt.Printf("%s (%d columns, %d preprocessed)\n", chip.Name(), chip.Width(), chip.PreprocessedWidth())
	//
	for i, name := range names {
		cellWidth = max(cellWidth, uint(len(fmt.Sprintf("%d:%s", i, name))))
	}
	// Account for separators
	perRow = max(1, width/(cellWidth+3))
	nrows = (uint(len(names)) + perRow - 1) / perRow
	tp := termio.NewTablePrinter(perRow, nrows)
	//
	for i, name := range names {
		tp.Set(uint(i)%perRow, uint(i)/perRow, fmt.Sprintf("%d:%s", i, name))
	}
	//
	tp.SetMaxWidths(width - 3)
	tp.AnsiEscapes(false)
	tp.Print(os.Stdout)
}

func printConstraints(chip engine.Chip, width uint) {
	constraints := air.Constraints(chip)
	tp := termio.NewTablePrinter(2, uint(len(constraints))+1)
	//
	tp.SetRow(0, "constraint", "degree")
	//
	for i, c := range constraints {
		tp.SetRow(uint(i)+1, c.Handle, fmt.Sprint(c.Degree()))
	}
	//
	tp.SetMaxWidth(0, width-12)
	tp.AnsiEscapes(termio.IsTerminal())
	tp.Print(os.Stdout)
}

func printInteractions(m *machine.Machine, chip engine.Chip, width uint) {
	var (
		sends    = chip.Sends()
		receives = chip.Receives()
		tp       = termio.NewTablePrinter(4, uint(len(sends)+len(receives))+1)
		row      = uint(1)
	)
	//
	tp.SetRow(0, "kind", "bus", "count", "fields")
	//
	for kind, interactions := range [][]bus.Interaction{sends, receives} {
		for _, i := range interactions {
			tp.SetRow(row, []string{"send", "receive"}[kind], m.Registry().Name(i.Bus), i.Count.String(),
				fmt.Sprint(i.Fields))
			row++
		}
	}
	//
	tp.SetMaxWidths(width / 2)
	tp.AnsiEscapes(termio.IsTerminal())
	tp.Print(os.Stdout)
}

// Write the schema of every chip in DBML form to a given file.
func writeSchemaFile(m *machine.Machine, filename string) {
	file, err := os.Create(filename)
	//
	if err == nil {
		err = m.WriteSchema(file)
		//
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Infof("schema written to %s", filename)
}

func chipNames(m *machine.Machine) []string {
	var names []string
	//
	for _, chip := range m.Chips() {
		names = append(names, chip.Name())
	}
	//
	return names
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().Bool("constraints", false, "print constraints")
	schemaCmd.Flags().Bool("interactions", false, "print bus interactions")
	schemaCmd.Flags().String("dbml", "", "write the schema of every chip (in DBML form) to a file")
}
