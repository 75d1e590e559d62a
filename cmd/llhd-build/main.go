// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"llhd/internal/diag"
	"llhd/internal/ir"
)

// constI32 is a minimal InstData implementation for an i32 immediate,
// enough to drive the demo below with no textual IR surface at all:
// this binary builds a unit purely through the Go construction API.
type constI32 struct{ v int64 }

func (c constI32) Opcode() string     { return "const_i32" }
func (c constI32) Operands() []ir.Value { return nil }
func (c constI32) Blocks() []ir.Block   { return nil }
func (c constI32) ConstInt() int64      { return c.v }

type addI32 struct{ lhs, rhs ir.Value }

func (a addI32) Opcode() string     { return "add" }
func (a addI32) Operands() []ir.Value { return []ir.Value{a.lhs, a.rhs} }
func (a addI32) Blocks() []ir.Block   { return nil }

type retI32 struct{ v ir.Value }

func (r retI32) Opcode() string     { return "ret" }
func (r retI32) Operands() []ir.Value { return []ir.Value{r.v} }
func (r retI32) Blocks() []ir.Block   { return nil }

func main() {
	commonlog.Configure(1, nil)
	tracer := diag.NewTracer("llhd.build")

	i32 := ir.IntType{Width: 32}
	sig := ir.Signature{Return: i32}
	b := ir.NewFunction(ir.GlobalName("foo"), sig, ir.WithTracer(tracer))

	bb := b.Block()
	b.AppendTo(bb)

	c1 := b.BuildInst(constI32{v: 1}, i32)
	c2 := b.BuildInst(constI32{v: 2}, i32)
	sum := b.BuildInst(addI32{lhs: b.DFG().InstResult(c1), rhs: b.DFG().InstResult(c2)}, i32)
	b.BuildInst(retI32{v: b.DFG().InstResult(sum)}, ir.Void)

	unit := b.Finish()

	func() {
		defer func() {
			if r := recover(); r != nil {
				color.Red("verification failed: %v", r)
				os.Exit(1)
			}
		}()
		unit.Verify(demoVerifier{})
	}()

	color.Green("built and verified %s", unit.Name())
	fmt.Println(ir.PrintUnit(unit))
}

// demoVerifier is a placeholder for the real verifier, which lives
// outside this module as an external collaborator; it only confirms
// every block has at least one instruction, enough to make this
// binary's Verify call meaningful without pulling in a full checker.
type demoVerifier struct{}

func (demoVerifier) VerifyUnit(u *ir.Unit) []string {
	var diags []string
	for _, blk := range u.Blocks() {
		if len(u.BlockInsts(blk)) == 0 {
			diags = append(diags, fmt.Sprintf("block %d is empty", blk))
		}
	}
	return diags
}
