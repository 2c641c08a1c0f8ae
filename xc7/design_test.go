package xc7

import (
	"testing"

	"github.com/openxc7/fasmout/util"
)

func testDesign() *Design {
	d := &Design{
		Width:  4,
		Height: 4,
		TileTypes: map[string]*TileType{
			"CLBLM_L": {
				Name: "CLBLM_L",
				Wires: []WireData{
					{Name: "CLBLM_M_A", Site: 0},
					{Name: "CLBLM_M_AQ", Site: 0},
					{Name: "CLBLM_INT_WIRE", Site: -1},
				},
				Pips: []PipData{
					{SrcIndex: 0, DstIndex: 1, Flags: PipSiteInternal, Bel: "AFFMUX", Pin: "AX"},
					{SrcIndex: 2, DstIndex: 1, Flags: PipTileRouting},
				},
				Bels: []BelData{
					{Name: "AFF", Site: 0, Z: (0 << 6) | (0 << 4) | BelFF, Pins: map[string]int{"D": 0, "Q": 1}},
				},
			},
		},
		Cells:   util.NewOrderedMap[string, *CellInfo](),
		Nets:    util.NewOrderedMap[string, *NetInfo](),
		IoiHclk: map[int]int{},
		IobHclk: map[int]int{},
	}
	d.Tiles = []TileInst{{Name: "CLBLM_L_X0Y0", Type: "CLBLM_L", Sites: []string{"SLICE_X0Y0"}}}

	ff := &CellInfo{
		Name:   "ff0",
		Type:   "SLICE_FF",
		Bel:    BelId{0, 0},
		Params: map[string]Property{},
		Attrs:  map[string]Property{"X_ORIG_TYPE": StringProp("FDRE")},
		Ports:  map[string]*NetInfo{},
	}
	d.Cells.Insert("ff0", ff)

	net := &NetInfo{
		Name:   "q",
		Driver: &PortRef{Cell: ff, Port: "Q"},
		Wires: map[WireId]PipId{
			{0, 1}: {0, 0},
		},
	}
	d.Nets.Insert("q", net)
	ff.Ports["Q"] = net

	d.Finalize()
	return d
}

func TestDesignLookups(t *testing.T) {
	d := testDesign()

	if name := d.TileName(0); name != "CLBLM_L_X0Y0" {
		t.Fatalf("unexpected tile name %s", name)
	}
	w, ok := d.WireByName("CLBLM_L_X0Y0", "CLBLM_M_AQ")
	if !ok || w.Index != 1 {
		t.Fatalf("wire lookup failed: %v %v", w, ok)
	}
	if d.WireName(w) != "CLBLM_M_AQ" {
		t.Fatalf("wrong wire name %s", d.WireName(w))
	}
	if _, ok := d.WireByName("CLBLM_L_X0Y0", "NO_SUCH_WIRE"); ok {
		t.Fatal("lookup of missing wire succeeded")
	}

	bel, ok := d.BelByName("SLICE_X0Y0/AFF")
	if !ok || bel.Index != 0 {
		t.Fatalf("bel lookup failed: %v %v", bel, ok)
	}
	if d.BelSite(bel) != "SLICE_X0Y0" {
		t.Fatalf("wrong bel site %s", d.BelSite(bel))
	}
	if !d.IsLogicTile(bel) {
		t.Fatal("CLB bel not recognised as logic tile")
	}
}

func TestDesignRoutingLookups(t *testing.T) {
	d := testDesign()

	net, _ := d.Nets.Lookup("q")
	if got := d.BoundPipNet(PipId{0, 0}); got != net {
		t.Fatal("pip not bound to net")
	}
	if got := d.BoundWireNet(WireId{0, 1}); got != net {
		t.Fatal("wire not bound to net")
	}
	if d.BoundPipNet(PipId{0, 1}) != nil {
		t.Fatal("unused pip bound to a net")
	}

	uphill := d.PipsUphill(WireId{0, 1})
	if len(uphill) != 2 {
		t.Fatalf("got %d uphill pips, want 2", len(uphill))
	}
}

func TestDesignSiteWireAndPins(t *testing.T) {
	d := testDesign()
	bel := BelId{0, 0}

	w, ok := d.SiteWire(bel, "CLBLM_M_A")
	if !ok || w.Index != 0 {
		t.Fatalf("site wire lookup failed: %v %v", w, ok)
	}
	if _, ok := d.SiteWire(bel, "CLBLM_INT_WIRE"); ok {
		t.Fatal("non-site wire resolved as site wire")
	}

	pw, ok := d.BelPinWire(bel, "D")
	if !ok || pw.Index != 0 {
		t.Fatalf("bel pin lookup failed: %v %v", pw, ok)
	}
}

func TestDesignTileStatusBinding(t *testing.T) {
	d := testDesign()

	lts := d.TileStatus[0].LTS
	if lts == nil {
		t.Fatal("logic tile status not created")
	}
	ff, _ := d.Cells.Lookup("ff0")
	if lts.Cells[(0<<6)|(0<<4)|BelFF] != ff {
		t.Fatal("FF not bound into its sub-slot")
	}
	if got := d.BoundBelCell(BelId{0, 0}); got != ff {
		t.Fatal("bel not bound to cell")
	}
}

func TestHclkFallback(t *testing.T) {
	d := testDesign()
	if d.HclkForIoi(0) != 0 {
		t.Fatal("missing IOI association must fall back to the tile itself")
	}
	d.IoiHclk[0] = 3
	if d.HclkForIoi(0) != 3 {
		t.Fatal("IOI association not honoured")
	}
}
