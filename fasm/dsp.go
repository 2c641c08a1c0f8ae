package fasm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// reversedBits converts a most-significant-bit-first '0'/'1' string into a
// bit vector of the given size, LSB first. Missing high bits read as one,
// excess source bits are truncated.
func reversedBits(s string, size int) []bool {
	bits := make([]bool, size)
	for i := range bits {
		bits[i] = true
	}
	for i := 0; i < size && i < len(s); i++ {
		bits[i] = s[len(s)-1-i] == '1'
	}
	return bits
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s)
}

func (b *backend) writeDspCell(ci *xc7.CellInfo) {
	tileName := b.d.TileName(ci.Bel.Tile)
	tileSide := string(tileName[4])
	b.push(tileName)
	b.push("DSP48")
	_, y := b.d.SiteLocInTile(ci.Bel)
	dsp := "DSP_" + strconv.Itoa(y)
	b.push(dsp)

	writeBusZinv := func(name string, width int) {
		for i := 0; i < width; i++ {
			bit := fmt.Sprintf("[%d]", i)
			inv := (ci.IntParam("IS_"+name+"_INVERTED", 0)>>uint(i))&1 != 0
			inv = inv || ci.BoolParam("IS_"+name+bit+"_INVERTED", false)
			b.writeBitIf("ZIS_"+name+"_INVERTED"+bit, !inv)
		}
	}

	// value 1 is equivalent to 2, according to UG479
	// but in real life, Vivado sets AREG_0 is 0,
	// no bit is 1, and AREG_2 is 2
	areg := ci.IntParam("AREG", 1)
	if areg == 0 || areg == 2 {
		b.writeBit("AREG_" + strconv.FormatInt(areg, 10))
	}

	if ci.StrParam("A_INPUT", "DIRECT") == "CASCADE" {
		b.writeBit("A_INPUT[0]")
	}

	breg := ci.IntParam("BREG", 1)
	if breg == 0 || breg == 2 {
		b.writeBit("BREG_" + strconv.FormatInt(breg, 10))
	}

	if ci.StrParam("B_INPUT", "DIRECT") == "CASCADE" {
		b.writeBit("B_INPUT[0]")
	}

	if ci.StrParam("USE_DPORT", "FALSE") == "TRUE" {
		b.writeBit("USE_DPORT[0]")
	}

	switch ci.StrParam("USE_SIMD", "ONE48") {
	case "TWO24":
		b.writeBit("USE_SIMD_FOUR12_TWO24")
	case "FOUR12":
		b.writeBit("USE_SIMD_FOUR12")
	}

	// PATTERN
	if pattern := ci.StrParam("PATTERN", ""); pattern != "" {
		b.writeVector("PATTERN[47:0]", reversedBits(pattern, 48), false)
	}

	switch ci.StrParam("AUTORESET_PATDET", "NO_RESET") {
	case "RESET_MATCH":
		b.writeBit("AUTORESET_PATDET_RESET")
	case "RESET_NOT_MATCH":
		b.writeBit("AUTORESET_PATDET_RESET_NOT_MATCH")
	}

	// MASK: synthesis hands us 48 bits but only 46 carry configuration;
	// the two most significant bits are dropped.
	mask := ci.StrParam("MASK", "001111111111111111111111111111111111111111111111")
	b.writeVector("MASK[45:0]", reversedBits(mask, 46), false)

	switch ci.StrParam("SEL_MASK", "MASK") {
	case "MASK":
	case "C":
		b.writeBit("SEL_MASK_C")
	case "ROUNDING_MODE1":
		b.writeBit("SEL_MASK_ROUNDING_MODE1")
	case "ROUNDING_MODE2":
		b.writeBit("SEL_MASK_ROUNDING_MODE2")
	default:
		log.Fatal("unknown SEL_MASK value '%s' in DSP48E1 '%s'\n", ci.StrParam("SEL_MASK", "MASK"), ci.Name)
	}

	b.writeBitIf("ZADREG[0]", !ci.BoolParam("ADREG", true))
	b.writeBitIf("ZALUMODEREG[0]", !ci.BoolParam("ALUMODEREG", false))
	b.writeBitIf("ZAREG_2_ACASCREG_1", !ci.BoolParam("ACASCREG", false))
	b.writeBitIf("ZBREG_2_BCASCREG_1", !ci.BoolParam("BCASCREG", false))
	b.writeBitIf("ZCARRYINREG[0]", !ci.BoolParam("CARRYINREG", false))
	b.writeBitIf("ZCARRYINSELREG[0]", !ci.BoolParam("CARRYINSELREG", false))
	b.writeBitIf("ZCREG[0]", !ci.BoolParam("CREG", true))
	b.writeBitIf("ZDREG[0]", !ci.BoolParam("DREG", true))
	b.writeBitIf("ZINMODEREG[0]", !ci.BoolParam("INMODEREG", false))
	writeBusZinv("ALUMODE", 4)
	writeBusZinv("INMODE", 5)
	writeBusZinv("OPMODE", 7)
	b.writeBitIf("ZMREG[0]", !ci.BoolParam("MREG", false))
	b.writeBitIf("ZOPMODEREG[0]", !ci.BoolParam("OPMODEREG", false))
	b.writeBitIf("ZPREG[0]", !ci.BoolParam("PREG", false))
	b.writeBitIf("USE_DPORT[0]", ci.StrParam("USE_DPORT", "FALSE") == "TRUE")
	b.writeBitIf("ZIS_CLK_INVERTED", !ci.BoolParam("IS_CLK_INVERTED", false))
	b.writeBitIf("ZIS_CARRYIN_INVERTED", !ci.BoolParam("IS_CARRYIN_INVERTED", false))
	b.popN(2)

	writeConstPins := func(constNetName string) {
		attrValue := ci.StrAttr("DSP_"+constNetName+"_PINS", "")
		for _, pin := range strings.Fields(attrValue) {
			basename := stripDigits(pin)
			netName := constNetName
			if ci.BoolParam("IS_"+basename+"_INVERTED", false) {
				if constNetName == "GND" {
					netName = "VCC"
				} else {
					netName = "GND"
				}
			}
			b.writeBit(dsp + "_" + pin + ".DSP_" + netName + "_" + tileSide)
		}
	}

	writeConstPins("GND")
	writeConstPins("VCC")

	b.pop()
}

func (b *backend) writeIp() {
	for _, ci := range b.d.Cells.Values() {
		if ci.Type == "DSP48E1_DSP48E1" {
			b.writeDspCell(ci)
			b.blank()
		}
	}
}
