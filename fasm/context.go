package fasm

import (
	"bufio"
	"strconv"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// backend holds the emission state: the output stream, the hierarchical
// prefix stack, and the side tables accumulated across encoder passes.
type backend struct {
	d   *xc7.Design
	out *bufio.Writer

	prefix       []string
	lastWasBlank bool

	pipsByTile     map[int][]xc7.PipId
	ioconfigByHclk map[int]*bankIoConfig
	ppips          map[pseudoPipKey][]string
	invertiblePins map[string][]string
}

func newBackend(d *xc7.Design, out *bufio.Writer) *backend {
	return &backend{
		d:              d,
		out:            out,
		lastWasBlank:   true,
		pipsByTile:     make(map[int][]xc7.PipId),
		ioconfigByHclk: make(map[int]*bankIoConfig),
		invertiblePins: xc7.InvertiblePins(),
	}
}

func (b *backend) push(s string) {
	b.prefix = append(b.prefix, s)
}

func (b *backend) pop() {
	b.prefix = b.prefix[:len(b.prefix)-1]
}

func (b *backend) popN(n int) {
	b.prefix = b.prefix[:len(b.prefix)-n]
}

// assertBalanced aborts when a component left entries on the prefix stack.
func (b *backend) assertBalanced(section string) {
	if len(b.prefix) != 0 {
		log.Fatal("prefix stack imbalance after %s: %d entries left\n", section, len(b.prefix))
	}
}

// blank emits a single blank separator line. Consecutive calls collapse.
func (b *backend) blank() {
	if !b.lastWasBlank {
		b.out.WriteByte('\n')
	}
	b.lastWasBlank = true
}

func (b *backend) writePrefix() {
	for _, x := range b.prefix {
		b.out.WriteString(x)
		b.out.WriteByte('.')
	}
	b.lastWasBlank = false
}

// rawLine emits a line outside of the prefix stack.
func (b *backend) rawLine(s string) {
	b.out.WriteString(s)
	b.out.WriteByte('\n')
	b.lastWasBlank = false
}

// writeBit emits a feature line under the current prefix.
func (b *backend) writeBit(name string) {
	b.writePrefix()
	b.out.WriteString(name)
	b.out.WriteByte('\n')
}

// writeBitIf emits a feature line iff value is true.
func (b *backend) writeBitIf(name string, value bool) {
	if value {
		b.writeBit(name)
	}
}

// writeVector emits a sized binary literal, most significant bit first.
func (b *backend) writeVector(name string, bits []bool, invert bool) {
	b.writePrefix()
	b.out.WriteString(name)
	b.out.WriteString(" = ")
	b.out.WriteString(strconv.Itoa(len(bits)))
	b.out.WriteString("'b")
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] != invert {
			b.out.WriteByte('1')
		} else {
			b.out.WriteByte('0')
		}
	}
	b.out.WriteByte('\n')
}

// writeIntVector emits the low width bits of value as a vector.
func (b *backend) writeIntVector(name string, value uint64, width int, invert bool) {
	bits := make([]bool, width)
	for i := 0; i < width; i++ {
		bits[i] = value&(1<<uint(i)) != 0
	}
	b.writeVector(name, bits, invert)
}
