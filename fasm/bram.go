package fasm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openxc7/fasmout/xc7"
)

// usedWiresStartingWith returns the names of wires with the given prefix
// that appear on a used pip of the tile, on the source or destination side.
func (b *backend) usedWiresStartingWith(tile int, prefix string, isSource bool) []string {
	var wires []string
	pips, ok := b.pipsByTile[tile]
	if !ok {
		return wires
	}
	tt := b.d.LocInfo(tile)
	for _, pip := range pips {
		pd := tt.Pips[pip.Index]
		wireIndex := pd.DstIndex
		if isSource {
			wireIndex = pd.SrcIndex
		}
		wire := tt.Wires[wireIndex].Name
		if strings.HasPrefix(wire, prefix) {
			wires = append(wires, wire)
		}
	}
	return wires
}

// writeBramWidth translates one of the four port width parameters into its
// feature lines. 36k instances carry doubled widths that are halved here;
// width 36 activates the SDP data path instead of a plain width bit.
func (b *backend) writeBramWidth(ci *xc7.CellInfo, name string, is36, isY1 bool) {
	width := int(ci.IntParam(name, 0))
	if width == 0 {
		return
	}
	actualWidth := width
	if is36 && width != 1 {
		actualWidth = width / 2
	}
	if ((is36 && width == 72) || (isY1 && actualWidth == 36)) && name == "READ_WIDTH_A" {
		b.writeBit(name + "_18")
	}
	if actualWidth == 36 {
		b.writeBit("SDP_" + name[:len(name)-2] + "_36")
		if strings.HasPrefix(name, "WRITE") {
			b.writeBit(name[:len(name)-1] + "A_18")
			b.writeBit(name[:len(name)-1] + "B_18")
		} else if strings.HasPrefix(name, "READ") {
			b.writeBit(name[:len(name)-1] + "B_18")
		}
	} else {
		b.writeBit(name + "_" + strconv.Itoa(actualWidth))
	}
}

// writeBramInit emits the data and parity initialisation vectors. For a 36k
// instance each 256-bit output vector interleaves two source vectors, the
// half selecting the odd or even source bits.
func (b *backend) writeBramInit(half int, ci *xc7.CellInfo, is36 bool) {
	for _, mode := range []string{"", "P"} {
		count := 64
		if mode == "P" {
			count = 8
		}
		for i := 0; i < count; i++ {
			hasInit := false
			initData := make([]bool, 256)
			if is36 {
				for j := 0; j < 2; j++ {
					param, ok := ci.Param(fmt.Sprintf("INIT%s_%02X", mode, i*2+j))
					if !ok {
						continue
					}
					hasInit = true
					for k := half; k < 256; k += 2 {
						if k >= param.Len() {
							break
						}
						initData[j*128+k/2] = param.Bit(k)
					}
				}
			} else {
				if param, ok := ci.Param(fmt.Sprintf("INIT%s_%02X", mode, i)); ok {
					hasInit = true
					for k := 0; k < 256; k++ {
						if k >= param.Len() {
							break
						}
						initData[k] = param.Bit(k)
					}
				}
			}
			if hasInit {
				b.writeVector(fmt.Sprintf("INIT%s_%02X[255:0]", mode, i), initData, false)
			}
		}
	}
}

func allOnes(n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = true
	}
	return bits
}

func (b *backend) writeBramHalf(tile, half int, ci *xc7.CellInfo) {
	b.push(b.d.TileName(tile))
	b.push("RAMB18_Y" + strconv.Itoa(half))
	if ci != nil {
		is36 := ci.Type == "RAMB36E1_RAMB36E1"
		b.writeBit("IN_USE")
		b.writeBramWidth(ci, "READ_WIDTH_A", is36, half == 1)
		b.writeBramWidth(ci, "READ_WIDTH_B", is36, half == 1)
		b.writeBramWidth(ci, "WRITE_WIDTH_A", is36, half == 1)
		b.writeBramWidth(ci, "WRITE_WIDTH_B", is36, half == 1)
		b.writeBitIf("DOA_REG", ci.BoolParam("DOA_REG", false))
		b.writeBitIf("DOB_REG", ci.BoolParam("DOB_REG", false))
		for _, pin := range b.invertiblePins[ci.StrAttr("X_ORIG_TYPE", "")] {
			b.writeBitIf("ZINV_"+pin, !ci.BoolParam("IS_"+pin+"_INVERTED", false))
		}
		for _, wrmode := range []string{"WRITE_MODE_A", "WRITE_MODE_B"} {
			mode := ci.StrParam(wrmode, "WRITE_FIRST")
			if mode != "WRITE_FIRST" {
				b.writeBit(wrmode + "_" + mode)
			}
		}
		b.writeVector("ZINIT_A[17:0]", allOnes(18), false)
		b.writeVector("ZINIT_B[17:0]", allOnes(18), false)
		b.writeVector("ZSRVAL_A[17:0]", allOnes(18), false)
		b.writeVector("ZSRVAL_B[17:0]", allOnes(18), false)

		b.writeBramInit(half, ci, is36)
	}
	b.pop()
	if half == 0 {
		usedRdaddrcasc := b.usedWiresStartingWith(tile, "BRAM_CASCOUT_ADDRARDADDR", false)
		usedWraddrcasc := b.usedWiresStartingWith(tile, "BRAM_CASCOUT_ADDRBWRADDR", false)
		b.writeBitIf("CASCOUT_ARD_ACTIVE", len(usedRdaddrcasc) != 0)
		b.writeBitIf("CASCOUT_BWR_ACTIVE", len(usedWraddrcasc) != 0)
	}
	b.pop()
}

func (b *backend) writeBram() {
	for tile := range b.d.Tiles {
		typeName := b.d.TileTypeName(tile)
		if typeName != "BRAM_L" && typeName != "BRAM_R" {
			continue
		}
		var lower, upper *xc7.CellInfo
		if bts := b.d.TileStatus[tile].BTS; bts != nil {
			if bts.Cells[xc7.BelRam36] != nil {
				lower = bts.Cells[xc7.BelRam36]
				upper = bts.Cells[xc7.BelRam36]
			} else {
				lower = bts.Cells[xc7.BelRam18L]
				upper = bts.Cells[xc7.BelRam18U]
			}
		}
		b.writeBramHalf(tile, 0, lower)
		b.writeBramHalf(tile, 1, upper)
		b.blank()
	}
}
