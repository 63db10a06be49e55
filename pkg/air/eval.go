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
package air

import (
	"fmt"
	"reflect"

	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Frame identifies a concrete row of a chip's main table, along with the
// (optional) preprocessed table, against which expressions are evaluated.
// Accesses to the next row wrap around from the last row to the first.
type Frame struct {
	Main         *trace.Table
	Preprocessed *trace.Table
	Row          int
}

// EvalAt evaluates a given expression at a given frame.
func EvalAt(e Expr, frame Frame) field.Element {
	switch e := e.(type) {
	case *Add:
		return evalAtAdd(e, frame)
	case *Constant:
		return e.Value
	case *ColumnAccess:
		return evalAtColumn(e, frame)
	case *Mul:
		return evalAtMul(e, frame)
	case *Selector:
		return evalAtSelector(e, frame)
	case *Sub:
		return evalAtSub(e, frame)
	default:
		name := reflect.TypeOf(e).Name()
		panic(fmt.Sprintf("unknown AIR expression \"%s\"", name))
	}
}

func evalAtAdd(e *Add, frame Frame) field.Element {
	var val field.Element
	//
	for _, arg := range e.Args {
		val = val.Add(EvalAt(arg, frame))
	}
	//
	return val
}

func evalAtSub(e *Sub, frame Frame) field.Element {
	if len(e.Args) == 0 {
		return field.Zero()
	}
	// Evaluate first argument
	val := EvalAt(e.Args[0], frame)
	// Continue evaluating the rest
	for i := 1; i < len(e.Args); i++ {
		val = val.Sub(EvalAt(e.Args[i], frame))
	}
	//
	return val
}

func evalAtMul(e *Mul, frame Frame) field.Element {
	var val = field.One()
	//
	for _, arg := range e.Args {
		// Can short-circuit evaluation?
		if val.IsZero() {
			break
		}
		//
		val = val.Mul(EvalAt(arg, frame))
	}
	//
	return val
}

func evalAtColumn(e *ColumnAccess, frame Frame) field.Element {
	var table = frame.Main
	//
	if e.Trace == PREPROCESSED {
		table = frame.Preprocessed
	}
	//
	row := (frame.Row + e.Shift) % table.Height()
	//
	return table.Get(row, e.Column)
}

func evalAtSelector(e *Selector, frame Frame) field.Element {
	var last = frame.Main.Height() - 1
	//
	switch e.Kind {
	case FIRST_ROW:
		return field.Bool(frame.Row == 0)
	case LAST_ROW:
		return field.Bool(frame.Row == last)
	default:
		return field.Bool(frame.Row != last)
	}
}
