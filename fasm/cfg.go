package fasm

import (
	"strconv"
	"strings"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/xc7"
)

// netIsConstant reports whether a net is one of the packer's constant nets.
func netIsConstant(net *xc7.NetInfo) bool {
	if net == nil {
		return false
	}
	return net.Name == xc7.PackerGndNet || net.Name == xc7.PackerVccNet
}

// writeCfg emits the configuration-center cells (JTAG, ICAP, DCI reset,
// startup logic).
func (b *backend) writeCfg() {
	for _, ci := range b.d.Cells.Values() {
		tileName := b.d.TileName(ci.Bel.Tile)
		if !strings.HasPrefix(tileName, "CFG_CENTER_") {
			continue
		}

		b.push(tileName)
		switch ci.Type {
		case "BSCAN":
			b.push("BSCAN")
			chain := ci.IntParam("JTAG_CHAIN", 1)
			if chain < 1 || chain > 4 {
				log.Fatal("Invalid JTAG_CHAIN number of '%d'. Allowed values are: 1-4.\n", chain)
			}
			b.writeBit("JTAG_CHAIN_" + strconv.FormatInt(chain, 10))
			b.pop()
		case "DCIRESET_DCIRESET":
			b.writeBit("DCIRESET.ENABLED")
		case "ICAP_ICAP":
			b.push("ICAP")
			width := ci.StrParam("ICAP_WIDTH", "X32")
			if width != "X32" && width != "X16" && width != "X8" {
				log.Fatal("Unknown ICAP_WIDTH of '%s'. Allowed values are: X32, X16 and X8.\n", width)
			}
			if width == "X16" {
				b.writeBit("ICAP_WIDTH_X16")
			}
			if width == "X8" {
				b.writeBit("ICAP_WIDTH_X8")
			}
			b.pop()
		case "STARTUP_STARTUP":
			progUsr := ci.StrParam("PROG_USR", "FALSE")
			if progUsr != "TRUE" && progUsr != "FALSE" {
				log.Fatal("Invalid PROG_USR attribute in STARTUPE2 of '%s'. Allowed values are: TRUE, FALSE.\n", progUsr)
			}
			b.writeBitIf("STARTUP.PROG_USR", progUsr == "TRUE")
			b.writeBitIf("STARTUP.USRCCLKO_CONNECTED", !netIsConstant(ci.Net("USRCCLKO")))
		}

		b.pop()
	}
}
