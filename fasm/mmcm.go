package fasm

import (
	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// mmcmLockTable holds the LKTABLE value per CLKFBOUT_MULT.
// Bit layout: LockRefDly(5) LockFBDly(5) LockCnt(10) LockSatHigh(10) UnlockCnt(10).
var mmcmLockTable = [64]uint64{
	0b0011000110111110100011111010010000000001,
	0b0011000110111110100011111010010000000001,
	0b0100001000111110100011111010010000000001,
	0b0101101011111110100011111010010000000001,
	0b0111001110111110100011111010010000000001,
	0b1000110001111110100011111010010000000001,
	0b1001110011111110100011111010010000000001,
	0b1011010110111110100011111010010000000001,
	0b1100111001111110100011111010010000000001,
	0b1110011100111110100011111010010000000001,
	0b1111111111111000010011111010010000000001,
	0b1111111111110011100111111010010000000001,
	0b1111111111101110111011111010010000000001,
	0b1111111111101011110011111010010000000001,
	0b1111111111101000101011111010010000000001,
	0b1111111111100111000111111010010000000001,
	0b1111111111100011111111111010010000000001,
	0b1111111111100010011011111010010000000001,
	0b1111111111100000110111111010010000000001,
	0b1111111111011111010011111010010000000001,
	0b1111111111011101101111111010010000000001,
	0b1111111111011100001011111010010000000001,
	0b1111111111011010100111111010010000000001,
	0b1111111111011001000011111010010000000001,
	0b1111111111011001000011111010010000000001,
	0b1111111111010111011111111010010000000001,
	0b1111111111010101111011111010010000000001,
	0b1111111111010101111011111010010000000001,
	0b1111111111010100010111111010010000000001,
	0b1111111111010100010111111010010000000001,
	0b1111111111010010110011111010010000000001,
	0b1111111111010010110011111010010000000001,
	0b1111111111010010110011111010010000000001,
	0b1111111111010001001111111010010000000001,
	0b1111111111010001001111111010010000000001,
	0b1111111111010001001111111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
	0b1111111111001111101011111010010000000001,
}

// The filter tables hold FILTREG1_RESERVED per CLKFBOUT_MULT, one table per
// BANDWIDTH setting. HIGH and OPTIMIZED share the same values.
var mmcmFilterLow = [64]uint16{
	0b0010111100, 0b0010111100, 0b0010111100, 0b0010111100,
	0b0010011100, 0b0010101100, 0b0010110100, 0b0010001100,
	0b0010010100, 0b0010010100, 0b0010100100, 0b0010111000,
	0b0010111000, 0b0010111000, 0b0010111000, 0b0010000100,
	0b0010000100, 0b0010000100, 0b0010011000, 0b0010011000,
	0b0010011000, 0b0010011000, 0b0010011000, 0b0010011000,
	0b0010011000, 0b0010101000, 0b0010101000, 0b0010101000,
	0b0010101000, 0b0010101000, 0b0010110000, 0b0010110000,
	0b0010110000, 0b0010110000, 0b0010110000, 0b0010110000,
	0b0010110000, 0b0010110000, 0b0010110000, 0b0010110000,
	0b0010110000, 0b0010110000, 0b0010110000, 0b0010110000,
	0b0010110000, 0b0010110000, 0b0010110000, 0b0010001000,
	0b0010001000, 0b0010001000, 0b0010001000, 0b0010001000,
	0b0010001000, 0b0010001000, 0b0010001000, 0b0010001000,
	0b0010001000, 0b0010001000, 0b0010001000, 0b0010001000,
	0b0010001000, 0b0010001000, 0b0010001000, 0b0010001000,
}

var mmcmFilterLowSS = [64]uint16{
	0b0010111111, 0b0010111111, 0b0010111111, 0b0010111111,
	0b0010011111, 0b0010101111, 0b0010110111, 0b0010001111,
	0b0010010111, 0b0010010111, 0b0010100111, 0b0010111011,
	0b0010111011, 0b0010111011, 0b0010111011, 0b0010000111,
	0b0010000111, 0b0010000111, 0b0010011011, 0b0010011011,
	0b0010011011, 0b0010011011, 0b0010011011, 0b0010011011,
	0b0010011011, 0b0010101011, 0b0010101011, 0b0010101011,
	0b0010101011, 0b0010101011, 0b0010110011, 0b0010110011,
	0b0010110011, 0b0010110011, 0b0010110011, 0b0010110011,
	0b0010110011, 0b0010110011, 0b0010110011, 0b0010110011,
	0b0010110011, 0b0010110011, 0b0010110011, 0b0010110011,
	0b0010110011, 0b0010110011, 0b0010110011, 0b0010001011,
	0b0010001011, 0b0010001011, 0b0010001011, 0b0010001011,
	0b0010001011, 0b0010001011, 0b0010001011, 0b0010001011,
	0b0010001011, 0b0010001011, 0b0010001011, 0b0010001011,
	0b0010001011, 0b0010001011, 0b0010001011, 0b0010001011,
}

var mmcmFilterHigh = [64]uint16{
	0b0010111100, 0b0100111100, 0b0101101100, 0b0111011100,
	0b1101011100, 0b1110101100, 0b1110110100, 0b1111001100,
	0b1110010100, 0b1111010100, 0b1111100100, 0b1101000100,
	0b1111100100, 0b1111100100, 0b1111100100, 0b1111100100,
	0b1111010100, 0b1111010100, 0b1100000100, 0b1100000100,
	0b1100000100, 0b0101110000, 0b0101110000, 0b0101110000,
	0b0101110000, 0b0011010000, 0b0011010000, 0b0011010000,
	0b0011010000, 0b0011010000, 0b0011010000, 0b0011010000,
	0b0011010000, 0b0011010000, 0b0011010000, 0b0011010000,
	0b0011010000, 0b0011010000, 0b0011010000, 0b0011010000,
	0b0011010000, 0b0010100000, 0b0010100000, 0b0010100000,
	0b0010100000, 0b0010100000, 0b0111000100, 0b0111000100,
	0b0100110000, 0b0100110000, 0b0100110000, 0b0100110000,
	0b0110000100, 0b0110000100, 0b0101011000, 0b0101011000,
	0b0101011000, 0b0010010000, 0b0010010000, 0b0010010000,
	0b0010010000, 0b0100101000, 0b0011110000, 0b0011110000,
}

func (b *backend) writeMmcmClkout(name string, ci *xc7.CellInfo) {
	// FIXME: variable duty cycle
	divideParam := name + "_DIVIDE"
	switch name {
	case "CLKFBOUT":
		divideParam = name + "_MULT_F"
	case "CLKOUT0":
		divideParam = name + "_DIVIDE_F"
	}
	divide := ci.FloatParam(divideParam, 1)
	phase := ci.FloatParam(name+"_PHASE", 1)
	p := computeClockParams(divide, phase, name == "CLKOUT0" || name == "CLKFBOUT")

	used := name == "DIVCLK" || name == "CLKFBOUT" || ci.Net(name) != nil
	if name == "DIVCLK" {
		b.writeIntVector("DIVCLK_DIVCLK_HIGH_TIME[5:0]", uint64(p.high), 6, false)
		b.writeIntVector("DIVCLK_DIVCLK_LOW_TIME[5:0]", uint64(p.low), 6, false)
		b.writeBitIf("DIVCLK_DIVCLK_EDGE[0]", p.edge)
		b.writeBitIf("DIVCLK_DIVCLK_NO_COUNT[0]", p.noCount)
		return
	}
	if !used {
		return
	}

	isClkout5Or6 := name == "CLKOUT5" || name == "CLKOUT6"
	high, low := p.high, p.low

	if (name == "CLKOUT0" || name == "CLKFBOUT") && p.frac != 0 {
		high--
		low--

		fracShifted := p.frac >> 1
		// CLKOUT0 controls CLKOUT5_CLKOUT2, CLKFBOUT controls CLKOUT6_CLKOUT2
		fracConfName := "CLKOUT6_CLKOUT2_"
		if name == "CLKOUT0" {
			fracConfName = "CLKOUT5_CLKOUT2_"
		}

		if fracShifted >= 1 {
			b.writeBit(fracConfName + "FRACTIONAL_FRAC_WF_F[0]")
			b.writeIntVector(fracConfName+"FRACTIONAL_PHASE_MUX_F[1:0]", uint64(fracShifted), 2, false)
		}
	}

	b.writeBit(name + "_CLKOUT1_OUTPUT_ENABLE[0]")
	b.writeIntVector(name+"_CLKOUT1_HIGH_TIME[5:0]", uint64(high), 6, false)
	b.writeIntVector(name+"_CLKOUT1_LOW_TIME[5:0]", uint64(low), 6, false)
	b.writeIntVector(name+"_CLKOUT1_PHASE_MUX[2:0]", uint64(p.phasemux), 3, false)

	edgeFeature := name + "_CLKOUT2_EDGE[0]"
	noCountFeature := name + "_CLKOUT2_NO_COUNT[0]"
	delayTimeFeature := name + "_CLKOUT2_DELAY_TIME[5:0]"
	if isClkout5Or6 {
		edgeFeature = name + "_CLKOUT2_FRACTIONAL_EDGE[0]"
		noCountFeature = name + "_CLKOUT2_FRACTIONAL_NO_COUNT[0]"
		delayTimeFeature = name + "_CLKOUT2_FRACTIONAL_DELAY_TIME[5:0]"
	}
	b.writeBitIf(edgeFeature, p.edge)
	b.writeBitIf(noCountFeature, p.noCount)
	b.writeIntVector(delayTimeFeature, uint64(p.delaytime), 6, false)

	if !isClkout5Or6 && p.frac != 0 {
		b.writeBit(name + "_CLKOUT2_FRAC_EN[0]")
		b.writeBit(name + "_CLKOUT2_FRAC_WF_R[0]")
		b.writeIntVector(name+"_CLKOUT2_FRAC[2:0]", uint64(p.frac), 3, false)
	}
}

func (b *backend) writeMmcm(ci *xc7.CellInfo) {
	b.push(b.d.TileName(ci.Bel.Tile))
	b.push("MMCME2_ADV")
	b.writeBit("IN_USE")
	// FIXME: should be INV not ZINV (XRay error?)
	b.writeBitIf("ZINV_PWRDWN", ci.BoolParam("IS_PWRDWN_INVERTED", false))
	b.writeBitIf("ZINV_RST", ci.BoolParam("IS_RST_INVERTED", false))
	b.writeBitIf("ZINV_PSEN", ci.BoolParam("IS_PSEN_INVERTED", false))
	b.writeBitIf("ZINV_PSINCDEC", ci.BoolParam("IS_PSINCDEC_INVERTED", false))
	b.writeBitIf("INV_CLKINSEL", ci.BoolParam("IS_CLKINSEL_INVERTED", false))
	b.writeMmcmClkout("DIVCLK", ci)
	b.writeMmcmClkout("CLKFBOUT", ci)
	b.writeMmcmClkout("CLKOUT0", ci)
	b.writeMmcmClkout("CLKOUT1", ci)
	b.writeMmcmClkout("CLKOUT2", ci)
	b.writeMmcmClkout("CLKOUT3", ci)
	b.writeMmcmClkout("CLKOUT4", ci)
	b.writeMmcmClkout("CLKOUT5", ci)
	b.writeMmcmClkout("CLKOUT6", ci)

	comp := ci.StrParam("COMPENSATION", "INTERNAL")
	b.push("COMP")
	if comp == "INTERNAL" || comp == "ZHOLD" {
		// both modes set this bit
		b.writeBit("Z_ZHOLD")
	} else {
		log.Fatal("unsupported compensation type '%s' for MMCME2_ADV '%s'\n", comp, ci.Name)
	}
	b.pop()

	clkfboutMult := int(ci.FloatParam("CLKFBOUT_MULT_F", 5.000))
	if clkfboutMult > 63 {
		log.Fatal("MMCME2_ADV: CLKFBOUT_MULT_F must not be greater than 63\n")
	}
	if clkfboutMult == 0 {
		log.Fatal("MMCME2_ADV: CLKFBOUT_MULT_F must not be 0\n")
	}
	b.writeIntVector("LKTABLE[39:0]", mmcmLockTable[clkfboutMult-1], 40, false)

	var filterLookup *[64]uint16
	switch ci.StrParam("BANDWIDTH", "OPTIMIZED") {
	case "LOW":
		filterLookup = &mmcmFilterLow
	case "LOW_SS":
		filterLookup = &mmcmFilterLowSS
	case "HIGH":
		filterLookup = &mmcmFilterHigh
	default:
		// OPTIMIZED shares the HIGH values
		filterLookup = &mmcmFilterHigh
	}
	b.writeIntVector("FILTREG1_RESERVED[11:0]", uint64(filterLookup[clkfboutMult-1]), 12, false)

	// 0x9900 enables fractional counters, 0x1 << 8 only the integer ones;
	// 0xffff enables everything.
	b.writeIntVector("POWER_REG_POWER_REG_POWER_REG[15:0]", 0xffff, 16, false)
	b.writeBit("LOCKREG3_RESERVED[0]")
	b.writeIntVector("TABLE[9:0]", 0x3d4, 10, false)
	b.popN(2)
}
