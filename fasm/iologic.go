package fasm

import (
	"strconv"
	"strings"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// writeIolConfig emits the configuration of one IOLOGIC cell (input/output
// registers, SERDES, delay lines).
func (b *backend) writeIolConfig(ci *xc7.CellInfo) {
	tile := b.d.TileName(ci.Bel.Tile)
	b.push(tile)
	isSing := strings.Contains(tile, "_SING_")
	isTopSing := ci.Bel.Tile < b.d.HclkForIoi(ci.Bel.Tile)

	site := b.d.BelSite(ci.Bel)
	sitetype := site
	if i := strings.Index(site, "_"); i >= 0 {
		sitetype = site[:i]
	}
	_, siteY := b.d.SiteLocInTile(ci.Bel)
	y := 1 - siteY
	if isSing {
		if isTopSing {
			y = 1
		} else {
			y = 0
		}
	}
	b.push(sitetype + "_Y" + strconv.Itoa(y))

	switch ci.Type {
	case "ILOGICE3_IFF":
		b.writeBit("IDDR.IN_USE")
		b.writeBit("IDDR_OR_ISERDES.IN_USE")
		b.writeBit("ISERDES.MODE.MASTER")
		b.writeBit("ISERDES.NUM_CE.N1")

		// Switch IDELMUXE3 to include the IDELAY element, if we have an IDELAYE2 driving D
		d := ci.Net("D")
		if d == nil || d.Driver == nil || d.Driver.Cell == nil {
			log.Fatal("%s '%s' has disconnected D input\n", ci.Type, ci.Name)
		}
		if strings.Contains(d.Driver.Cell.Type, "IDELAYE2") {
			b.writeBit("IDELMUXE3.P0")
		} else {
			b.writeBit("IDELMUXE3.P1")
		}

		// clock edge
		edge := ci.StrParam("DDR_CLK_EDGE", "OPPOSITE_EDGE")
		switch edge {
		case "SAME_EDGE":
			b.writeBit("IFF.DDR_CLK_EDGE.SAME_EDGE")
		case "OPPOSITE_EDGE":
			b.writeBit("IFF.DDR_CLK_EDGE.OPPOSITE_EDGE")
		default:
			log.Fatal("unsupported clock edge parameter for cell '%s' at %s: %s. Supported are: SAME_EDGE and OPPOSITE_EDGE\n",
				ci.Name, site, edge)
		}

		if ci.StrParam("SRTYPE", "SYNC") == "SYNC" {
			b.writeBit("IFF.SRTYPE.SYNC")
		} else {
			b.writeBit("IFF.SRTYPE.ASYNC")
		}

		b.writeBitIf("IFF.ZINV_C", !ci.BoolParam("IS_CLK_INVERTED", false))
		b.writeBitIf("ZINV_D", !ci.BoolParam("IS_D_INVERTED", false))

		b.writeBitIf("IFF.ZINIT_Q1", ci.IntParam("INIT_Q1", 0) == 0)
		b.writeBitIf("IFF.ZINIT_Q2", ci.IntParam("INIT_Q2", 0) == 0)

		if ci.StrAttr("X_ORIG_PORT_SR", "R") == "R" {
			b.writeBit("IFF.ZSRVAL_Q1")
			b.writeBit("IFF.ZSRVAL_Q2")
		}
	case "OLOGICE2_OUTFF", "OLOGICE3_OUTFF":
		if ci.StrParam("DDR_CLK_EDGE", "OPPOSITE_EDGE") == "SAME_EDGE" {
			b.writeBit("ODDR.DDR_CLK_EDGE.SAME_EDGE")
		}

		b.writeBit("ODDR_TDDR.IN_USE")
		b.writeBit("OQUSED")
		b.writeBit("OSERDES.DATA_RATE_OQ.DDR")
		b.writeBit("OSERDES.DATA_RATE_TQ.BUF")

		if ci.StrParam("SRTYPE", "SYNC") == "SYNC" {
			b.writeBit("OSERDES.SRTYPE.SYNC")
		}

		for _, d := range []string{"D1", "D2"} {
			b.writeBitIf("IS_"+d+"_INVERTED", ci.BoolParam("IS_"+d+"_INVERTED", false))
		}

		b.writeBitIf("ZINIT_OQ", ci.IntParam("INIT", 1) == 0)

		b.writeBitIf("ODDR.SRUSED", ci.Net("SR") != nil)
		if ci.StrAttr("X_ORIG_PORT_SR", "R") == "R" {
			b.writeBit("ZSRVAL_OQ")
		}

		b.writeBitIf("ZINV_CLK", !ci.BoolParam("IS_CLK_INVERTED", false))
	case "OSERDESE2_OSERDESE2":
		b.writeBit("ODDR.DDR_CLK_EDGE.SAME_EDGE")
		b.writeBit("ODDR.SRUSED")
		b.writeBit("ODDR_TDDR.IN_USE")
		b.writeBitIf("OQUSED", ci.Net("OQ") != nil)
		b.writeBitIf("ZINV_CLK", !ci.BoolParam("IS_CLK_INVERTED", false))
		for _, t := range []string{"T1", "T2", "T3", "T4"} {
			b.writeBitIf("ZINV_"+t, (ci.Net(t) != nil || t == "T1") &&
				!ci.BoolParam("IS_"+t+"_INVERTED", false))
		}
		for _, d := range []string{"D1", "D2", "D3", "D4", "D5", "D6", "D7", "D8"} {
			b.writeBitIf("IS_"+d+"_INVERTED", ci.BoolParam("IS_"+d+"_INVERTED", false))
		}
		b.writeBitIf("ZINIT_OQ", !ci.BoolParam("INIT_OQ", false))
		b.writeBitIf("ZINIT_TQ", !ci.BoolParam("INIT_TQ", false))
		b.writeBitIf("ZSRVAL_OQ", !ci.BoolParam("SRVAL_OQ", false))
		b.writeBitIf("ZSRVAL_TQ", !ci.BoolParam("SRVAL_TQ", false))

		b.push("OSERDES")
		b.writeBit("IN_USE")
		rate := ci.StrParam("DATA_RATE_OQ", "DDR")
		if ci.Net("OQ") != nil {
			b.writeBit("DATA_RATE_OQ." + rate)
		} else {
			b.writeBit("DATA_RATE_OQ.DDR")
		}
		if ci.Net("TQ") != nil {
			b.writeBit("DATA_RATE_TQ." + ci.StrParam("DATA_RATE_TQ", "DDR"))
		} else {
			b.writeBit("DATA_RATE_TQ.BUF")
		}
		width := ci.IntParam("DATA_WIDTH", 8)
		switch rate {
		case "DDR":
			b.writeBit("DATA_WIDTH.DDR.W" + strconv.FormatInt(width, 10))
		case "SDR":
			b.writeBit("DATA_WIDTH.SDR.W" + strconv.FormatInt(width, 10))
		default:
			b.writeBit("DATA_WIDTH.W" + strconv.FormatInt(width, 10))
		}
		b.writeBit("SRTYPE.SYNC")
		b.writeBit("TSRTYPE.SYNC")
		b.pop()
	case "ISERDESE2_ISERDESE2":
		dataRate := ci.StrParam("DATA_RATE", "")
		b.writeBit("IDDR_OR_ISERDES.IN_USE")
		if dataRate == "DDR" {
			b.writeBit("IDDR.IN_USE")
		}
		b.writeBit("IFF.DDR_CLK_EDGE.OPPOSITE_EDGE")
		b.writeBit("IFF.SRTYPE.SYNC")
		for i := 1; i <= 4; i++ {
			q := strconv.Itoa(i)
			b.writeBitIf("IFF.ZINIT_Q"+q, !ci.BoolParam("INIT_Q"+q, false))
			b.writeBitIf("IFF.ZSRVAL_Q"+q, !ci.BoolParam("SRVAL_Q"+q, false))
		}
		b.writeBitIf("IFF.ZINV_C", !ci.BoolParam("IS_CLK_INVERTED", false))
		b.writeBitIf("IFF.ZINV_OCLK", !ci.BoolParam("IS_OCLK_INVERTED", false))
		iobdelay := ci.StrParam("IOBDELAY", "NONE")
		b.writeBitIf("IFFDELMUXE3.P0", iobdelay == "IFD")
		b.writeBitIf("ZINV_D", !ci.BoolParam("IS_D_INVERTED", false) && iobdelay != "IFD")

		b.push("ISERDES")
		b.writeBit("IN_USE")
		b.writeBitIf("OFB_USED", ci.StrParam("OFB_USED", "FALSE") == "TRUE")
		width := ci.IntParam("DATA_WIDTH", 8)
		mode := ci.StrParam("INTERFACE_TYPE", "NETWORKING")
		rate := ci.StrParam("DATA_RATE", "DDR")
		b.writeBit(mode + "." + rate + ".W" + strconv.FormatInt(width, 10))
		b.writeBit("MODE." + ci.StrParam("SERDES_MODE", "MASTER"))
		b.writeBit("NUM_CE.N" + strconv.FormatInt(ci.IntParam("NUM_CE", 1), 10))
		b.pop()
	case "IDELAYE2_IDELAYE2":
		b.writeBit("IN_USE")
		b.writeBitIf("CINVCTRL_SEL", ci.StrParam("CINVCTRL_SEL", "FALSE") == "TRUE")
		b.writeBitIf("PIPE_SEL", ci.StrParam("PIPE_SEL", "FALSE") == "TRUE")
		b.writeBitIf("HIGH_PERFORMANCE_MODE", ci.StrParam("HIGH_PERFORMANCE_MODE", "FALSE") == "TRUE")
		b.writeBit("DELAY_SRC_" + ci.StrParam("DELAY_SRC", "IDATAIN"))
		b.writeBit("IDELAY_TYPE_" + ci.StrParam("IDELAY_TYPE", "FIXED"))
		b.writeIntVector("IDELAY_VALUE[4:0]", uint64(ci.IntParam("IDELAY_VALUE", 0)), 5, false)
		b.writeIntVector("ZIDELAY_VALUE[4:0]", uint64(ci.IntParam("IDELAY_VALUE", 0)), 5, true)
		b.writeBitIf("IS_DATAIN_INVERTED", ci.BoolParam("IS_DATAIN_INVERTED", false))
		b.writeBitIf("IS_IDATAIN_INVERTED", ci.BoolParam("IS_IDATAIN_INVERTED", false))
	case "ODELAYE2_ODELAYE2":
		b.writeBit("IN_USE")
		b.writeBitIf("CINVCTRL_SEL", ci.StrParam("CINVCTRL_SEL", "FALSE") == "TRUE")
		b.writeBitIf("HIGH_PERFORMANCE_MODE", ci.StrParam("HIGH_PERFORMANCE_MODE", "FALSE") == "TRUE")
		if odelayType := ci.StrParam("ODELAY_TYPE", "FIXED"); odelayType != "FIXED" {
			b.writeBit("ODELAY_TYPE_" + odelayType)
		}
		b.writeIntVector("ODELAY_VALUE[4:0]", uint64(ci.IntParam("ODELAY_VALUE", 0)), 5, false)
		b.writeIntVector("ZODELAY_VALUE[4:0]", uint64(ci.IntParam("ODELAY_VALUE", 0)), 5, true)
		b.writeBitIf("ZINV_ODATAIN", !ci.BoolParam("IS_ODATAIN_INVERTED", false))
	default:
		log.Fatal("unsupported IOLOGIC cell type '%s'\n", ci.Type)
	}
	b.popN(2)
}
