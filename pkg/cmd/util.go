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

	"github.com/consensys/go-keccak-machine/pkg/machine"
	"github.com/consensys/go-keccak-machine/pkg/util/termio"
	"github.com/spf13/cobra"
)

// MAX_DEPTH is the largest tree depth accepted on the command line, since
// complete leaf levels are generated.
const MAX_DEPTH = 16

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or exit if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer, or exit if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned 64-bit integer, or exit if an error arises.
func getUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Construct the machine described by the common flags.
func getMachine(cmd *cobra.Command) *machine.Machine {
	config := machine.DefaultConfig()
	config.Depth = int(getUint(cmd, "depth"))
	//
	if config.Depth == 0 || config.Depth > MAX_DEPTH {
		fmt.Printf("invalid depth %d\n", config.Depth)
		os.Exit(2)
	}
	//
	return machine.New(config)
}

// Determine the maximum width of printed tables, defaulting to the width of the
// terminal.
func getTextWidth(cmd *cobra.Command) uint {
	if width := getUint(cmd, "textwidth"); width != 0 {
		return max(width, 20)
	}
	//
	return termio.Width(120)
}
