package fasm

import (
	"math"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// clockParams holds the counter settings of one PLL/MMCM clock output.
type clockParams struct {
	high      int
	low       int
	phasemux  int
	delaytime int
	frac      int
	noCount   bool
	edge      bool
}

// computeClockParams derives the counter settings from the real-valued
// divider and phase of a clock output. The fractional part is only
// meaningful for the outputs with a fractional counter; fracCapable
// selects whether it is computed at all.
func computeClockParams(divide, phase float64, fracCapable bool) clockParams {
	p := clockParams{high: 1, low: 1}
	if divide <= 1 {
		p.noCount = true
		return p
	}
	p.high = int(math.Floor(divide / 2))
	p.low = int(math.Floor(divide)) - p.high
	if p.high != p.low {
		p.edge = true
	}
	if fracCapable {
		p.frac = int(math.Floor(divide*8)) - int(math.Floor(divide))*8
	}
	phaseEights := int(math.Floor((phase / 360) * divide * 8))
	p.phasemux = phaseEights % 8
	p.delaytime = phaseEights / 8
	return p
}

func (b *backend) writePllClkout(name string, ci *xc7.CellInfo) {
	// FIXME: variable duty cycle
	divideParam := name + "_DIVIDE"
	if name == "CLKFBOUT" {
		divideParam = name + "_MULT"
	}
	divide := ci.FloatParam(divideParam, 1)
	phase := ci.FloatParam(name+"_PHASE", 1)
	p := computeClockParams(divide, phase, name == "CLKOUT1" || name == "CLKFBOUT")

	used := name == "DIVCLK" || name == "CLKFBOUT" || ci.Net(name) != nil
	if name == "DIVCLK" {
		b.writeIntVector("DIVCLK_DIVCLK_HIGH_TIME[5:0]", uint64(p.high), 6, false)
		b.writeIntVector("DIVCLK_DIVCLK_LOW_TIME[5:0]", uint64(p.low), 6, false)
		b.writeBitIf("DIVCLK_DIVCLK_EDGE[0]", p.edge)
		b.writeBitIf("DIVCLK_DIVCLK_NO_COUNT[0]", p.noCount)
	} else if used {
		b.writeBit(name + "_CLKOUT1_OUTPUT_ENABLE[0]")
		b.writeIntVector(name+"_CLKOUT1_HIGH_TIME[5:0]", uint64(p.high), 6, false)
		b.writeIntVector(name+"_CLKOUT1_LOW_TIME[5:0]", uint64(p.low), 6, false)
		b.writeIntVector(name+"_CLKOUT1_PHASE_MUX[2:0]", uint64(p.phasemux), 3, false)
		b.writeBitIf(name+"_CLKOUT2_EDGE[0]", p.edge)
		b.writeBitIf(name+"_CLKOUT2_NO_COUNT[0]", p.noCount)
		b.writeIntVector(name+"_CLKOUT2_DELAY_TIME[5:0]", uint64(p.delaytime), 6, false)
		if p.frac != 0 {
			b.writeBitIf(name+"_CLKOUT2_FRAC_EN[0]", p.edge)
			b.writeIntVector(name+"_CLKOUT2_FRAC[2:0]", uint64(p.frac), 3, false)
		}
	}
}

func (b *backend) writePll(ci *xc7.CellInfo) {
	b.push(b.d.TileName(ci.Bel.Tile))
	b.push("PLLE2_ADV")
	b.writeBit("IN_USE")
	// FIXME: should be INV not ZINV (XRay error?)
	b.writeBitIf("ZINV_PWRDWN", ci.BoolParam("IS_PWRDWN_INVERTED", false))
	b.writeBitIf("ZINV_RST", ci.BoolParam("IS_RST_INVERTED", false))
	b.writeBitIf("INV_CLKINSEL", ci.BoolParam("IS_CLKINSEL_INVERTED", false))
	b.writePllClkout("DIVCLK", ci)
	b.writePllClkout("CLKFBOUT", ci)
	b.writePllClkout("CLKOUT0", ci)
	b.writePllClkout("CLKOUT1", ci)
	b.writePllClkout("CLKOUT2", ci)
	b.writePllClkout("CLKOUT3", ci)
	b.writePllClkout("CLKOUT4", ci)
	b.writePllClkout("CLKOUT5", ci)

	comp := ci.StrParam("COMPENSATION", "INTERNAL")
	b.push("COMPENSATION")
	if comp == "INTERNAL" {
		b.writeBit("Z_ZHOLD_OR_CLKIN_BUF")
	} else {
		log.Fatal("unsupported compensation type '%s' for PLLE2_ADV '%s'\n", comp, ci.Name)
	}
	b.pop()

	b.writeIntVector("FILTREG1_RESERVED[11:0]", 0x8, 12, false)
	b.writeIntVector("LKTABLE[39:0]", 0xB5BE8FA401, 40, false)
	b.writeBit("LOCKREG3_RESERVED[0]")
	b.writeIntVector("TABLE[9:0]", 0x3B4, 10, false)
	b.popN(2)
}
