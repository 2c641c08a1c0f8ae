package fasm

import (
	"sort"
	"strings"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// replaceFirst replaces the first occurrence of old in s, if any.
func replaceFirst(s, old, new string) string {
	if i := strings.Index(s, old); i >= 0 {
		return s[:i] + new + s[i+len(old):]
	}
	return s
}

func isSingIoi(tileName string) bool {
	return strings.HasPrefix(tileName, "RIOI3_SING") ||
		strings.HasPrefix(tileName, "LIOI3_SING") ||
		strings.HasPrefix(tileName, "RIOI_SING")
}

func (b *backend) writePip(pip xc7.PipId) {
	b.pipsByTile[pip.Tile] = append(b.pipsByTile[pip.Tile], pip)

	dstIntent := b.d.WireIntent(b.d.PipDstWire(pip))
	if dstIntent == xc7.IntentPseudoGND || dstIntent == xc7.IntentPseudoVCC {
		return
	}

	pd := b.d.PipData(pip)
	if pd.Flags != xc7.PipTileRouting {
		return
	}

	tt := b.d.LocInfo(pip.Tile)
	srcName := tt.Wires[pd.SrcIndex].Name
	dstName := tt.Wires[pd.DstIndex].Name
	tileName := b.d.TileName(pip.Tile)

	if features, ok := b.ppips[pseudoPipKey{tt.Name, dstName, srcName}]; ok {
		for _, c := range features {
			if isSingIoi(tileName) {
				// Need to flip for top HCLK
				if pip.Tile < b.d.HclkForIoi(pip.Tile) {
					c = replaceFirst(c, "Y0", "Y1")
				}
			}
			b.rawLine(tileName + "." + c)
		}
		return
	}

	if pd.Extra == 1 {
		log.Warning("Unprocessed route-thru %s.%s.%s\n", tileName, dstName, srcName)
	}

	if strings.HasPrefix(tileName, "DSP_L") || strings.HasPrefix(tileName, "DSP_R") {
		// FIXME: PPIPs missing for DSPs
		return
	}
	origDstName := dstName
	if isSingIoi(tileName) {
		// FIXME: PPIPs missing for SING IOI3s
		if (strings.Contains(srcName, "IMUX") || strings.Contains(srcName, "CTRL0")) &&
			!strings.Contains(dstName, "CLK") {
			return
		}
		if i := strings.Index(srcName, "_SING_"); i >= 0 {
			srcName = srcName[:i] + srcName[i+5:]
		}
		// Need to flip for top HCLK
		if pip.Tile < b.d.HclkForIoi(pip.Tile) {
			dstName = replaceFirst(dstName, "_0", "_1")
			if strings.Contains(dstName, "OLOGIC0") {
				dstName = replaceFirst(dstName, "OLOGIC0", "OLOGIC1")
				srcName = replaceFirst(srcName, "_0", "_1")
			}
		}
	}
	if strings.Contains(tileName, "IOI") {
		if strings.Contains(dstName, "OCLKB") && strings.Contains(srcName, "IOI_OCLKM_") {
			return // missing, not sure if really a ppip?
		}
	}

	b.rawLine(tileName + "." + dstName + "." + srcName)

	if strings.Contains(tileName, "IOI") && strings.HasPrefix(dstName, "IOI_OCLK_") {
		i := strings.Index(dstName, "OCLK") + 4
		dstName = dstName[:i] + "M" + dstName[i:]
		origDstName = origDstName[:i] + "M" + origDstName[i:]

		w, ok := b.d.WireByName(tileName, origDstName)
		if !ok {
			log.Fatal("missing OCLKM wire %s/%s\n", tileName, origDstName)
		}
		if b.d.BoundWireNet(w) == nil {
			b.rawLine(tileName + "." + dstName + "." + srcName)
		}
	}
}

func (b *backend) writeRouting() {
	b.ppips = buildPseudoPips()
	for _, ni := range b.d.Nets.Values() {
		wires := make([]xc7.WireId, 0, len(ni.Wires))
		for w := range ni.Wires {
			wires = append(wires, w)
		}
		sort.Slice(wires, func(i, j int) bool { return wires[i].Less(wires[j]) })
		for _, w := range wires {
			if pip := ni.Wires[w]; pip != xc7.NilPip {
				b.writePip(pip)
			}
		}
		b.blank()
	}
}
