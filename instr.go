package mathexpr

import (
	"strconv"
	"strings"
)

// instr is one step of a compiled program. Exactly one of num, op, fn, and
// index is meaningful, selected by kind.
type instr struct {
	kind  instrKind
	num   float64
	op    byte
	fn    funcID
	index int

	// text is the source text of the unit that produced the instruction.
	text string
	pos  int
}

type instrKind int8

const (
	instrNone instrKind = iota

	instrNum  // push num
	instrOp   // pop r, pop l, push l op r
	instrFunc // pop x, push fn(x)
	instrVar  // push vals[index]
)

func (k instrKind) String() string {
	switch k {
	case instrNone:
		return "None"
	case instrNum:
		return "Num"
	case instrOp:
		return "Op"
	case instrFunc:
		return "Func"
	case instrVar:
		return "Var"
	default:
		return "instrKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// effect is the net change in stack depth from executing the instruction, and
// need is the depth it requires beforehand.
func (in instr) effect() (need, effect int) {
	switch in.kind {
	case instrNum, instrVar:
		return 0, 1
	case instrOp:
		return 2, -1
	case instrFunc:
		return 1, 0
	default:
		panic("mathexpr: invalid instruction " + in.kind.String())
	}
}

func (in instr) String() string {
	var b strings.Builder
	in.fmt(&b)
	return b.String()
}

func (in instr) fmt(b *strings.Builder) {
	switch in.kind {
	case instrNum:
		b.WriteString(in.text)
	case instrOp:
		b.WriteByte(in.op)
	case instrFunc:
		if in.fn == funcNeg {
			// Distinguish negation from subtraction.
			b.WriteString("neg")
			return
		}
		b.WriteString(in.fn.String())
	case instrVar:
		b.WriteByte(Delimiter)
		b.WriteString(in.text)
		b.WriteByte(Delimiter)
	default:
		b.WriteString("$" + in.kind.String() + "$")
	}
}
