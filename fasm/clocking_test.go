package fasm

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/openxc7/fasmout/xc7"
)

// A routed HCLK row buffer enables its buffer bit, activates the global
// clock at the HROW tile, and re-enables it at every rebuffer tile.
func TestClockingGclkPropagation(t *testing.T) {
	db := newDesignBuilder()

	hrow := db.tileType("CLK_HROW_TOP_R")
	hrow.Wires = []xc7.WireData{
		{Name: "CLK_HROW_R_CK_GCLK3", Site: -1},
		{Name: "CLK_HROW_CK_SOME_DST", Site: -1},
	}
	hrow.Pips = []xc7.PipData{{SrcIndex: 0, DstIndex: 1, Flags: xc7.PipSiteInternal}}

	hclk := db.tileType("HCLK_L")
	hclk.Wires = []xc7.WireData{
		{Name: "HCLK_CK_BUFHCLK7", Site: -1},
		{Name: "HCLK_SOME_DST", Site: -1},
	}
	hclk.Pips = []xc7.PipData{{SrcIndex: 0, DstIndex: 1, Flags: xc7.PipSiteInternal}}

	db.tileType("CLK_BUFG_REBUF")

	hrowTile := db.addTile("CLK_HROW_TOP_R_X60Y130", "CLK_HROW_TOP_R")
	hclkTile := db.addTile("HCLK_L_X10Y130", "HCLK_L")
	db.addTile("CLK_BUFG_REBUF_X60Y142", "CLK_BUFG_REBUF")

	net := db.addNet("clk")
	net.Wires[xc7.WireId{Tile: hrowTile, Index: 1}] = xc7.PipId{Tile: hrowTile, Index: 0}
	net.Wires[xc7.WireId{Tile: hclkTile, Index: 1}] = xc7.PipId{Tile: hclkTile, Index: 0}

	d := db.build()
	var buf bytes.Buffer
	b := newBackend(d, bufio.NewWriter(&buf))
	b.writeRouting()
	b.writeClocking()
	if err := b.out.Flush(); err != nil {
		t.Fatalf("flush failed: %s", err)
	}
	got := buf.String()

	for _, want := range []string{
		"CLK_HROW_TOP_R_X60Y130.CLK_HROW_R_CK_GCLK3_ACTIVE\n",
		"HCLK_L_X10Y130.ENABLE_BUFFER.HCLK_CK_BUFHCLK7\n",
		"CLK_BUFG_REBUF_X60Y142.GCLK3_ENABLE_ABOVE\n",
		"CLK_BUFG_REBUF_X60Y142.GCLK3_ENABLE_BELOW\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}

// Internal HROW clock inputs stay silent while external ones activate.
func TestClockingCkInFilter(t *testing.T) {
	db := newDesignBuilder()
	hrow := db.tileType("CLK_HROW_BOT_R")
	hrow.Wires = []xc7.WireData{
		{Name: "CLK_HROW_CK_IN_L4", Site: -1},
		{Name: "CLK_HROW_CK_INT_0_4", Site: -1},
		{Name: "CLK_HROW_DST_A", Site: -1},
		{Name: "CLK_HROW_DST_B", Site: -1},
	}
	hrow.Pips = []xc7.PipData{
		{SrcIndex: 0, DstIndex: 2, Flags: xc7.PipSiteInternal},
		{SrcIndex: 1, DstIndex: 3, Flags: xc7.PipSiteInternal},
	}
	tile := db.addTile("CLK_HROW_BOT_R_X60Y26", "CLK_HROW_BOT_R")

	net := db.addNet("clk")
	net.Wires[xc7.WireId{Tile: tile, Index: 2}] = xc7.PipId{Tile: tile, Index: 0}
	net.Wires[xc7.WireId{Tile: tile, Index: 3}] = xc7.PipId{Tile: tile, Index: 1}

	d := db.build()
	var buf bytes.Buffer
	b := newBackend(d, bufio.NewWriter(&buf))
	b.writeRouting()
	b.writeClocking()
	if err := b.out.Flush(); err != nil {
		t.Fatalf("flush failed: %s", err)
	}
	got := buf.String()

	if !strings.Contains(got, "CLK_HROW_BOT_R_X60Y26.CLK_HROW_CK_IN_L4_ACTIVE\n") {
		t.Fatalf("missing external clock input activation:\n%s", got)
	}
	if strings.Contains(got, "CLK_HROW_CK_INT_0_4_ACTIVE") {
		t.Fatalf("internal clock input activated:\n%s", got)
	}
}
