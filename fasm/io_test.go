package fasm

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/openxc7/fasmout/xc7"
)

// ioBankDesign builds an IOB33 tile pair with its HCLK and one pad cell.
func ioBankDesign(iostandard string, input, output bool) (*designBuilder, *xc7.CellInfo, int) {
	db := newDesignBuilder()
	tt := db.tileType("LIOB33")
	tt.Bels = []xc7.BelData{{Name: "PAD", Site: 0, SiteX: 0, SiteY: 0}}
	db.tileType("HCLK_IOI3")
	hclk := db.addTile("HCLK_IOI3_X0Y26", "HCLK_IOI3")
	tile := db.addTile("LIOB33_X0Y27", "LIOB33", "IOB_X0Y27")
	db.d.IobHclk[tile] = hclk

	padNet := db.addNet("pad$net")
	pad := db.addCell("pad0", "PAD", xc7.BelId{Tile: tile, Index: 0})
	pad.Attrs["IOSTANDARD"] = xc7.StringProp(iostandard)
	pad.Ports["PAD"] = padNet

	if output {
		drv := db.addCell("obuf0", "OUTBUF", xc7.BelId{Tile: tile, Index: 0})
		padNet.Driver = &xc7.PortRef{Cell: drv, Port: "OUT"}
	}
	if input {
		usr := db.addCell("ibuf0", "INBUF_EN", xc7.BelId{Tile: tile, Index: 0})
		padNet.Users = append(padNet.Users, xc7.PortRef{Cell: usr, Port: "PAD"})
	}
	return db, pad, hclk
}

func runIo(t *testing.T, d *xc7.Design) string {
	t.Helper()
	var buf bytes.Buffer
	b := newBackend(d, bufio.NewWriter(&buf))
	b.writeIo()
	if err := b.out.Flush(); err != nil {
		t.Fatalf("flush failed: %s", err)
	}
	return buf.String()
}

// An SSTL input pad raises the bank VREF exactly once at its HCLK tile.
func TestIoSstlInputBankVref(t *testing.T) {
	db, _, _ := ioBankDesign("SSTL15", true, false)
	got := runIo(t, db.build())

	if n := strings.Count(got, "HCLK_IOI3_X0Y26.VREF.V_675_MV\n"); n != 1 {
		t.Fatalf("VREF emitted %d times, want 1:\n%s", n, got)
	}
	if !strings.Contains(got, "LIOB33_X0Y27.IOB_Y1.SSTL135_SSTL15.IN\n") {
		t.Fatalf("missing SSTL input feature:\n%s", got)
	}
	if !strings.Contains(got, "HCLK_IOI3_X0Y26.STEPDOWN\n") {
		t.Fatalf("missing bank stepdown:\n%s", got)
	}
}

// An input-only LVCMOS33 pad emits the shared input and IN_ONLY features
// plus the default pull.
func TestIoLvcmos33Input(t *testing.T) {
	db, _, _ := ioBankDesign("LVCMOS33", true, false)
	got := runIo(t, db.build())

	for _, want := range []string{
		"LIOB33_X0Y27.IOB_Y1.LVCMOS25_LVCMOS33_LVTTL.IN\n",
		"LIOB33_X0Y27.IOB_Y1.LVCMOS12_LVCMOS15_LVCMOS18_LVCMOS25_LVCMOS33_LVDS_25_LVTTL_SSTL135_SSTL15_TMDS_33.IN_ONLY\n",
		"LIOB33_X0Y27.IOB_Y1.PULLTYPE.NONE\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "STEPDOWN") {
		t.Fatalf("LVCMOS33 must not request stepdown:\n%s", got)
	}
}

// An LVCMOS33 output with default drive selects the shared 12mA drive bit
// and the slow slew group.
func TestIoLvcmos33OutputDrive(t *testing.T) {
	db, _, _ := ioBankDesign("LVCMOS33", false, true)
	got := runIo(t, db.build())

	for _, want := range []string{
		"LIOB33_X0Y27.IOB_Y1.LVCMOS33_LVTTL.DRIVE.I12_I8\n",
		"LIOB33_X0Y27.IOB_Y1.LVCMOS12_LVCMOS15_LVCMOS18_LVCMOS25_LVCMOS33_LVTTL_SSTL135_SSTL15.SLEW.SLOW\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "IN_ONLY") {
		t.Fatalf("output pad marked input-only:\n%s", got)
	}
}

// A TMDS_33 pad marks its bank as differential-only.
func TestIoTmdsBankAggregation(t *testing.T) {
	db, _, _ := ioBankDesign("TMDS_33", true, false)
	got := runIo(t, db.build())

	for _, want := range []string{
		"HCLK_IOI3_X0Y26.ONLY_DIFF_IN_USE\n",
		"HCLK_IOI3_X0Y26.TMDS_33_IN_USE\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "LVDS_25_IN_USE") {
		t.Fatalf("LVDS_25 bank bit raised for TMDS_33:\n%s", got)
	}
}

// An ILOGIC input flipflop driven through an IDELAYE2 selects the delayed
// path mux.
func TestIologicIffThroughIdelay(t *testing.T) {
	db := newDesignBuilder()
	tt := db.tileType("LIOI3")
	tt.Bels = []xc7.BelData{
		{Name: "IFF", Site: 0, SiteX: 0, SiteY: 0},
		{Name: "IDELAYE2", Site: 1, SiteX: 0, SiteY: 0},
	}
	tile := db.addTile("LIOI3_X0Y27", "LIOI3", "ILOGIC_X0Y27", "IDELAY_X0Y27")

	dnet := db.addNet("dly$out")
	idelay := db.addCell("idelay0", "IDELAYE2_IDELAYE2", xc7.BelId{Tile: tile, Index: 1})
	idelay.Ports["DATAOUT"] = dnet
	dnet.Driver = &xc7.PortRef{Cell: idelay, Port: "DATAOUT"}

	iff := db.addCell("iff0", "ILOGICE3_IFF", xc7.BelId{Tile: tile, Index: 0})
	iff.Params["DDR_CLK_EDGE"] = xc7.StringProp("SAME_EDGE")
	iff.Ports["D"] = dnet

	got := runIo(t, db.build())
	for _, want := range []string{
		"LIOI3_X0Y27.ILOGIC_Y1.IDDR.IN_USE\n",
		"LIOI3_X0Y27.ILOGIC_Y1.IDELMUXE3.P0\n",
		"LIOI3_X0Y27.ILOGIC_Y1.IFF.DDR_CLK_EDGE.SAME_EDGE\n",
		"LIOI3_X0Y27.IDELAY_Y1.IN_USE\n",
		"LIOI3_X0Y27.IDELAY_Y1.IDELAY_VALUE[4:0] = 5'b00000\n",
		"LIOI3_X0Y27.IDELAY_Y1.ZIDELAY_VALUE[4:0] = 5'b11111\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}
