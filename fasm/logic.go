package fasm

import (
	"sort"
	"strings"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// lutInputs returns the set of logical input signals for a LUT-type cell.
func lutInputs(cell *xc7.CellInfo) []string {
	switch cell.StrAttr("X_ORIG_TYPE", "") {
	case "LUT1":
		return []string{"I0"}
	case "LUT2":
		return []string{"I0", "I1"}
	case "LUT3":
		return []string{"I0", "I1", "I2"}
	case "LUT4":
		return []string{"I0", "I1", "I2", "I3"}
	case "LUT5":
		return []string{"I0", "I1", "I2", "I3", "I4"}
	case "LUT6":
		return []string{"I0", "I1", "I2", "I3", "I4", "I5"}
	case "RAMD64E":
		return []string{"RADR0", "RADR1", "RADR2", "RADR3", "RADR4", "RADR5"}
	case "SRL16E":
		return []string{"A0", "A1", "A2", "A3"}
	case "SRLC32E":
		return []string{"A[0]", "A[1]", "A[2]", "A[3]", "A[4]"}
	case "RAMD32":
		return []string{"RADR0", "RADR1", "RADR2", "RADR3", "RADR4"}
	}
	log.Fatal("unsupported LUT-type cell '%s' of type '%s'\n", cell.Name, cell.StrAttr("X_ORIG_TYPE", ""))
	return nil
}

// physInputs are the physical LUT input pins, table bit order.
var physInputs = []string{"A1", "A2", "A3", "A4", "A5", "A6"}

// lutInit computes the physical 64-bit INIT table for the 6-LUT/5-LUT pair
// occupying one letter position. Either cell may be nil. When both are
// present the 5-LUT owns the lower half of the table and the 6-LUT the
// upper half.
func lutInit(lut6, lut5 *xc7.CellInfo) []bool {
	bits := make([]bool, 64)

	for i := 0; i < 2; i++ {
		lut := lut6
		if i == 1 {
			lut = lut5
		}
		if lut == nil {
			continue
		}
		inputs := lutInputs(lut)
		logToBit := make(map[string]int, len(inputs))
		for j, name := range inputs {
			logToBit[name] = j
		}
		var physToLog [6][]string
		for j := 0; j < 6; j++ {
			attr := "X_ORIG_PORT_" + physInputs[j]
			if !lut.HasAttr(attr) {
				continue
			}
			physToLog[j] = strings.Fields(lut.StrAttr(attr, ""))
		}
		lbound, ubound := 0, 64
		// Fracturable LUTs
		if lut5 != nil && lut6 != nil {
			if i == 1 {
				lbound, ubound = 0, 32
			} else {
				lbound, ubound = 32, 64
			}
		}
		init, _ := lut.Param("INIT")
		for j := lbound; j < ubound; j++ {
			logIndex := 0
			for k := 0; k < 6; k++ {
				if j&(1<<uint(k)) == 0 {
					continue
				}
				for _, p2l := range physToLog[k] {
					logIndex |= 1 << uint(logToBit[p2l])
				}
			}
			bits[j] = init.Bit(logIndex)
		}
	}
	return bits
}

// halfName returns the FASM name of a half logic tile.
func halfName(half int, isM bool) string {
	if half != 0 {
		return "SLICEL_X1"
	}
	if isM {
		return "SLICEM_X0"
	}
	return "SLICEL_X0"
}

// writeRoutingBel emits the active routing-bel mode for a site mux output
// wire by scanning its uphill site pips for the bound one.
func (b *backend) writeRoutingBel(dstWire xc7.WireId) {
	for _, pip := range b.d.PipsUphill(dstWire) {
		if b.d.BoundPipNet(pip) == nil {
			continue
		}
		pd := b.d.PipData(pip)
		belname := pd.Bel
		pinname := pd.Pin
		skipPinname := false
		// Modes with no associated configuration bit
		if belname == "WEMUX" && pinname == "WE" {
			continue
		}

		if len(belname) > 1 && belname[1:] == "DI1MUX" {
			belname = "DI1MUX"
		}

		if len(belname) > 1 && belname[1:] == "CY0" {
			if len(pinname) > 1 && pinname[1:] == "5" {
				skipPinname = true
			} else {
				continue
			}
		}

		b.writePrefix()
		b.out.WriteString(belname)
		if !skipPinname {
			b.out.WriteByte('.')
			b.out.WriteString(pinname)
		}
		b.out.WriteByte('\n')
	}
}

type ffKind struct {
	zrst    bool
	negedge bool
	sync    bool
}

var ffKinds = map[string]ffKind{
	"FDRE":   {zrst: true, negedge: false, sync: true},
	"FDRE_1": {zrst: true, negedge: true, sync: true},
	"FDSE":   {zrst: false, negedge: false, sync: true},
	"FDSE_1": {zrst: false, negedge: true, sync: true},
	"FDCE":   {zrst: true, negedge: false, sync: false},
	"FDCE_1": {zrst: true, negedge: true, sync: false},
	"FDPE":   {zrst: false, negedge: false, sync: false},
	"FDPE_1": {zrst: false, negedge: true, sync: false},
}

// writeFfsConfig emits the flipflop configuration of one half tile. All
// flipflops of a half share the latch/sync/clock-inversion/SR/CE
// configuration; disagreement is a packer defect and aborts.
func (b *backend) writeFfsConfig(tile, half int) {
	foundFF := false
	var negedgeFF, isLatch, isSync, isClkinv, isSrused, isCeused bool

	setCheck := func(dst *bool, src bool, what string) {
		if foundFF {
			if *dst != src {
				log.Fatal("conflicting %s in half %d of tile %s\n", what, half, b.d.TileName(tile))
			}
		} else {
			*dst = src
		}
	}

	tname := b.d.TileName(tile)

	lts := b.d.TileStatus[tile].LTS
	if lts == nil {
		return
	}

	b.push(tname)
	b.push(halfName(half, strings.Contains(tname, "CLBLM")))

	for i := 0; i < 4; i++ {
		ff1 := lts.Cells[(half<<6)|(i<<4)|xc7.BelFF]
		ff2 := lts.Cells[(half<<6)|(i<<4)|xc7.BelFF2]
		for j := 0; j < 2; j++ {
			ff := ff1
			if j == 1 {
				ff = ff2
			}
			if ff == nil {
				continue
			}
			b.push(b.d.BelName(ff.Bel))
			zinit := ff.IntParam("INIT", 0) != 1
			origType := ff.StrAttr("X_ORIG_TYPE", "")
			kind, ok := ffKinds[origType]
			if !ok {
				log.Fatal("unsupported FF type: '%s'\n", origType)
			}
			setCheck(&negedgeFF, kind.negedge, "FF clock edge")
			setCheck(&isLatch, false, "FF latch mode")
			setCheck(&isSync, kind.sync, "FF sync mode")

			b.writeBitIf("ZINI", zinit)
			b.writeBitIf("ZRST", kind.zrst)

			b.pop()
			if negedgeFF {
				setCheck(&isClkinv, true, "FF clock inversion")
			} else {
				setCheck(&isClkinv, ff.IntParam("IS_CLK_INVERTED", 0) == 1, "FF clock inversion")
			}

			sr, ce := ff.Net("SR"), ff.Net("CE")
			setCheck(&isSrused, sr != nil && sr.Name != xc7.PackerGndNet, "FF SR usage")
			setCheck(&isCeused, ce != nil && ce.Name != xc7.PackerVccNet, "FF CE usage")

			// Input mux
			if w, ok := b.d.BelPinWire(ff.Bel, "D"); ok {
				b.writeRoutingBel(w)
			}

			foundFF = true
		}
	}
	b.writeBitIf("LATCH", isLatch)
	b.writeBitIf("FFSYNC", isSync)
	b.writeBitIf("CLKINV", isClkinv)
	b.writeBitIf("NOCLKINV", !isClkinv)
	b.writeBitIf("SRUSEDMUX", isSrused)
	b.writeBitIf("CEUSEDMUX", isCeused)
	b.popN(2)
}

// writeLutsConfig emits the LUT tables and modes of one half tile.
func (b *backend) writeLutsConfig(tile, half int) {
	wa7Used, wa8Used := false, false

	tname := b.d.TileName(tile)
	isMtile := strings.Contains(tname, "CLBLM")
	isSlicem := isMtile && half == 0

	lts := b.d.TileStatus[tile].LTS
	if lts == nil {
		return
	}

	b.push(tname)
	b.push(halfName(half, isMtile))

	belInHalf, haveBel := b.d.BelByZ(tile, half<<6)

	for i := 0; i < 4; i++ {
		letter := string(rune('A' + i))
		lut6 := lts.Cells[(half<<6)|(i<<4)|xc7.Bel6LUT]
		lut5 := lts.Cells[(half<<6)|(i<<4)|xc7.Bel5LUT]
		// Write LUT initialisation
		if lut6 != nil || lut5 != nil {
			b.push(letter + "LUT")
			b.writeVector("INIT[63:0]", lutInit(lut6, lut5), false)

			// Write LUT mode config
			isSmall, isRAM, isSRL := false, false, false
			for j := 0; j < 2; j++ {
				lut := lut6
				if j == 1 {
					lut = lut5
				}
				if lut == nil {
					continue
				}
				switch lut.StrAttr("X_ORIG_TYPE", "") {
				case "RAMD64E", "RAMS64E":
					isRAM = true
				case "RAMD32", "RAMS32":
					isRAM = true
					isSmall = true
				case "SRL16E":
					isSRL = true
					isSmall = true
				case "SRLC32E":
					isSRL = true
				}
				wa7Used = wa7Used || lut.Net("WA7") != nil
				wa8Used = wa8Used || lut.Net("WA8") != nil
			}
			if isSlicem && i != 3 && haveBel {
				if w, ok := b.d.SiteWire(belInHalf, letter+"DI1MUX_OUT"); ok {
					b.writeRoutingBel(w)
				}
			}
			b.writeBitIf("SMALL", isSmall)
			b.writeBitIf("RAM", isRAM)
			b.writeBitIf("SRL", isSRL)
			b.pop()
		}
		if haveBel {
			if w, ok := b.d.SiteWire(belInHalf, letter+"MUX"); ok {
				b.writeRoutingBel(w)
			}
		}
	}
	b.writeBitIf("WA7USED", wa7Used)
	b.writeBitIf("WA8USED", wa8Used)
	if isSlicem && haveBel {
		if w, ok := b.d.SiteWire(belInHalf, "WEMUX_OUT"); ok {
			b.writeRoutingBel(w)
		}
	}

	b.popN(2)
}

// writeCarryConfig emits the CARRY4 configuration of one half tile.
func (b *backend) writeCarryConfig(tile, half int) {
	tname := b.d.TileName(tile)
	isMtile := strings.Contains(tname, "CLBLM")

	lts := b.d.TileStatus[tile].LTS
	if lts == nil {
		return
	}

	carry := lts.Cells[half<<6|xc7.BelCarry4]
	if carry == nil {
		return
	}

	b.push(tname)
	b.push(halfName(half, isMtile))

	if w, ok := b.d.SiteWire(carry.Bel, "PRECYINIT_OUT"); ok {
		b.writeRoutingBel(w)
	}
	if carry.Net("CIN") != nil {
		b.writeBit("PRECYINIT.CIN")
	}
	b.push("CARRY4")
	for _, c := range []string{"A", "B", "C", "D"} {
		if w, ok := b.d.SiteWire(carry.Bel, c+"CY0_OUT"); ok {
			b.writeRoutingBel(w)
		}
	}
	b.popN(3)
}

func (b *backend) writeLogic() {
	usedTiles := make(map[int]bool)
	for _, ci := range b.d.Cells.Values() {
		if b.d.IsLogicTile(ci.Bel) {
			usedTiles[ci.Bel.Tile] = true
		}
	}
	tiles := make([]int, 0, len(usedTiles))
	for t := range usedTiles {
		tiles = append(tiles, t)
	}
	sort.Ints(tiles)
	for _, tile := range tiles {
		b.writeLutsConfig(tile, 0)
		b.writeLutsConfig(tile, 1)
		b.writeFfsConfig(tile, 0)
		b.writeFfsConfig(tile, 1)
		b.writeCarryConfig(tile, 0)
		b.writeCarryConfig(tile, 1)
		b.blank()
	}
}
