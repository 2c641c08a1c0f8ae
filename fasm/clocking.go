package fasm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/openxc7/fasmout/util"
)

// writeClocking emits the clock buffer cells and the row/bank level clock
// aggregations. Pass 1 handles the placed cells, pass 2 activates the
// buffers for used clock wires, pass 3 re-emits the globally observed
// clocks at the rebuffer tiles.
func (b *backend) writeClocking() {
	allGclk := make(map[string]bool)
	hclkByRow := make(map[int]map[string]bool)
	noteHclk := func(row int, s string) {
		if hclkByRow[row] == nil {
			hclkByRow[row] = make(map[string]bool)
		}
		hclkByRow[row][s] = true
	}

	for _, ci := range b.d.Cells.Values() {
		switch ci.Type {
		case "BUFGCTRL":
			b.push(b.d.TileName(ci.Bel.Tile))
			x, y := b.d.SiteLocInTile(ci.Bel)
			b.push("BUFGCTRL.BUFGCTRL_X" + strconv.Itoa(x) + "Y" + strconv.Itoa(y))
			b.writeBit("IN_USE")
			b.writeBitIf("INIT_OUT", ci.BoolParam("INIT_OUT", false))
			b.writeBitIf("IS_IGNORE0_INVERTED", ci.BoolParam("IS_IGNORE0_INVERTED", false))
			b.writeBitIf("IS_IGNORE1_INVERTED", ci.BoolParam("IS_IGNORE1_INVERTED", false))
			b.writeBitIf("ZINV_CE0", !ci.BoolParam("IS_CE0_INVERTED", false))
			b.writeBitIf("ZINV_CE1", !ci.BoolParam("IS_CE1_INVERTED", false))
			b.writeBitIf("ZINV_S0", !ci.BoolParam("IS_S0_INVERTED", false))
			b.writeBitIf("ZINV_S1", !ci.BoolParam("IS_S1_INVERTED", false))
			b.popN(2)
		case "PLLE2_ADV_PLLE2_ADV":
			b.writePll(ci)
		case "MMCME2_ADV_MMCME2_ADV":
			b.writeMmcm(ci)
		}
		b.blank()
	}

	for tile := range b.d.Tiles {
		name := b.d.TileName(tile)
		typeName := b.d.TileTypeName(tile)
		b.push(name)
		switch {
		case typeName == "HCLK_L" || typeName == "HCLK_R" ||
			typeName == "HCLK_L_BOT_UTURN" || typeName == "HCLK_R_BOT_UTURN":
			usedSources := b.usedWiresStartingWith(tile, "HCLK_CK_", true)
			b.push("ENABLE_BUFFER")
			for _, s := range usedSources {
				if strings.Contains(s, "BUFHCLK") {
					b.writeBit(s)
					noteHclk(tile/b.d.Width, s[strings.Index(s, "BUFHCLK"):])
				}
			}
			b.pop()
		case strings.HasPrefix(typeName, "CLK_HROW"):
			usedGclk := b.usedWiresStartingWith(tile, "CLK_HROW_R_CK_GCLK", true)
			usedCkIn := b.usedWiresStartingWith(tile, "CLK_HROW_CK_IN", true)
			for _, s := range usedGclk {
				b.writeBit(s + "_ACTIVE")
				allGclk[s[strings.Index(s, "GCLK"):]] = true
			}
			for _, s := range usedCkIn {
				if strings.Contains(s, "HROW_CK_INT") {
					continue
				}
				b.writeBit(s + "_ACTIVE")
			}
		case strings.HasPrefix(typeName, "HCLK_CMT"):
			usedCcio := b.usedWiresStartingWith(tile, "HCLK_CMT_CCIO", true)
			for _, s := range usedCcio {
				b.writeBit(s + "_ACTIVE")
				b.writeBit(s + "_USED")
			}
			usedHclk := b.usedWiresStartingWith(tile, "HCLK_CMT_CK_", true)
			for _, s := range usedHclk {
				if strings.Contains(s, "BUFHCLK") {
					b.writeBit(s + "_USED")
					noteHclk(tile/b.d.Width, s[strings.Index(s, "BUFHCLK"):])
				}
			}
		}
		b.pop()
		b.blank()
	}

	gclks := make([]string, 0, len(allGclk))
	for g := range allGclk {
		gclks = append(gclks, g)
	}
	sort.Strings(gclks)

	for tile := range b.d.Tiles {
		name := b.d.TileName(tile)
		typeName := b.d.TileTypeName(tile)
		b.push(name)
		if typeName == "CLK_BUFG_REBUF" {
			for _, gclk := range gclks {
				b.writeBit(gclk + "_ENABLE_ABOVE")
				b.writeBit(gclk + "_ENABLE_BELOW")
			}
		} else if strings.HasPrefix(typeName, "HCLK_CMT") {
			for _, hclk := range util.OrderedKeys(hclkByRow[tile/b.d.Width]) {
				b.writeBit("HCLK_CMT_CK_" + hclk + "_USED")
			}
		}
		b.pop()
		b.blank()
	}
}
