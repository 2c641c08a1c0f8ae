package fasm

import (
	"bytes"
	"testing"

	"github.com/openxc7/fasmout/util"
	"github.com/openxc7/fasmout/xc7"
)

// newTestDesign returns an empty design with no tiles.
func newTestDesign() *xc7.Design {
	d := &xc7.Design{
		Width:     16,
		Height:    16,
		TileTypes: map[string]*xc7.TileType{},
		Cells:     util.NewOrderedMap[string, *xc7.CellInfo](),
		Nets:      util.NewOrderedMap[string, *xc7.NetInfo](),
		IoiHclk:   map[int]int{},
		IobHclk:   map[int]int{},
	}
	d.Finalize()
	return d
}

type designBuilder struct {
	d *xc7.Design
}

func newDesignBuilder() *designBuilder {
	return &designBuilder{d: &xc7.Design{
		Width:     16,
		Height:    16,
		TileTypes: map[string]*xc7.TileType{},
		Cells:     util.NewOrderedMap[string, *xc7.CellInfo](),
		Nets:      util.NewOrderedMap[string, *xc7.NetInfo](),
		IoiHclk:   map[int]int{},
		IobHclk:   map[int]int{},
	}}
}

func (db *designBuilder) tileType(name string) *xc7.TileType {
	if tt, ok := db.d.TileTypes[name]; ok {
		return tt
	}
	tt := &xc7.TileType{Name: name}
	db.d.TileTypes[name] = tt
	return tt
}

func (db *designBuilder) addTile(name, typeName string, sites ...string) int {
	db.tileType(typeName)
	db.d.Tiles = append(db.d.Tiles, xc7.TileInst{Name: name, Type: typeName, Sites: sites})
	return len(db.d.Tiles) - 1
}

func (db *designBuilder) addNet(name string) *xc7.NetInfo {
	ni := &xc7.NetInfo{Name: name, Wires: map[xc7.WireId]xc7.PipId{}}
	db.d.Nets.Insert(name, ni)
	return ni
}

func (db *designBuilder) addCell(name, typeName string, bel xc7.BelId) *xc7.CellInfo {
	ci := &xc7.CellInfo{
		Name:   name,
		Type:   typeName,
		Bel:    bel,
		Params: map[string]xc7.Property{},
		Attrs:  map[string]xc7.Property{},
		Ports:  map[string]*xc7.NetInfo{},
	}
	db.d.Cells.Insert(name, ci)
	return ci
}

func (db *designBuilder) build() *xc7.Design {
	db.d.Finalize()
	return db.d
}

func emit(t *testing.T, d *xc7.Design) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatalf("Write failed: %s", err)
	}
	return buf.String()
}

// A lone FDRE with a used reset net and a constant-high clock enable
// configures its half for synchronous reset with the CE mux unused.
func TestEmitFdreHalfConfig(t *testing.T) {
	db := newDesignBuilder()
	tt := db.tileType("CLBLM_L")
	tt.Bels = append(tt.Bels, xc7.BelData{Name: "AFF", Site: 0, Z: (0 << 6) | (0 << 4) | xc7.BelFF})
	tile := db.addTile("CLBLM_L_X0Y0", "CLBLM_L", "SLICE_X0Y0")

	rst := db.addNet("rst")
	vcc := db.addNet(xc7.PackerVccNet)

	ff := db.addCell("ff0", "SLICE_FF", xc7.BelId{Tile: tile, Index: 0})
	ff.Attrs["X_ORIG_TYPE"] = xc7.StringProp("FDRE")
	ff.Params["INIT"] = xc7.IntProp(0)
	ff.Ports["SR"] = rst
	ff.Ports["CE"] = vcc

	got := emit(t, db.build())
	// The empty upper half still reports its (default) clock polarity.
	want := "CLBLM_L_X0Y0.SLICEM_X0.AFF.ZINI\n" +
		"CLBLM_L_X0Y0.SLICEM_X0.AFF.ZRST\n" +
		"CLBLM_L_X0Y0.SLICEM_X0.FFSYNC\n" +
		"CLBLM_L_X0Y0.SLICEM_X0.NOCLKINV\n" +
		"CLBLM_L_X0Y0.SLICEM_X0.SRUSEDMUX\n" +
		"CLBLM_L_X0Y0.SLICEL_X1.NOCLKINV\n" +
		"\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

// A default-parameter BUFGCTRL emits its enable and the negated inverter
// bits for both clock enables and selects.
func TestEmitBufgctrl(t *testing.T) {
	db := newDesignBuilder()
	tt := db.tileType("CLK_BUFG_BOT_R")
	tt.Bels = append(tt.Bels, xc7.BelData{Name: "BUFGCTRL", Site: 0, SiteX: 0, SiteY: 5})
	tile := db.addTile("CLK_BUFG_BOT_R_X3Y0", "CLK_BUFG_BOT_R", "BUFGCTRL_X0Y5")

	db.addCell("bufg0", "BUFGCTRL", xc7.BelId{Tile: tile, Index: 0})

	got := emit(t, db.build())
	want := "CLK_BUFG_BOT_R_X3Y0.BUFGCTRL.BUFGCTRL_X0Y5.IN_USE\n" +
		"CLK_BUFG_BOT_R_X3Y0.BUFGCTRL.BUFGCTRL_X0Y5.ZINV_CE0\n" +
		"CLK_BUFG_BOT_R_X3Y0.BUFGCTRL.BUFGCTRL_X0Y5.ZINV_CE1\n" +
		"CLK_BUFG_BOT_R_X3Y0.BUFGCTRL.BUFGCTRL_X0Y5.ZINV_S0\n" +
		"CLK_BUFG_BOT_R_X3Y0.BUFGCTRL.BUFGCTRL_X0Y5.ZINV_S1\n" +
		"\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

// Two runs over the same design produce byte-identical output.
func TestEmitDeterminism(t *testing.T) {
	db := newDesignBuilder()
	tt := db.tileType("CLBLM_L")
	tt.Bels = append(tt.Bels, xc7.BelData{Name: "AFF", Site: 0, Z: (0 << 6) | (0 << 4) | xc7.BelFF})
	tile := db.addTile("CLBLM_L_X0Y0", "CLBLM_L", "SLICE_X0Y0")

	rst := db.addNet("rst")
	ff := db.addCell("ff0", "SLICE_FF", xc7.BelId{Tile: tile, Index: 0})
	ff.Attrs["X_ORIG_TYPE"] = xc7.StringProp("FDCE")
	ff.Params["INIT"] = xc7.IntProp(1)
	ff.Ports["SR"] = rst

	d := db.build()
	first := emit(t, d)
	second := emit(t, d)
	if first != second {
		t.Fatal("emission is not deterministic")
	}
	if first == "" {
		t.Fatal("no output emitted")
	}
}

// No two consecutive blank lines appear anywhere in the output.
func TestEmitNoDoubleBlank(t *testing.T) {
	db := newDesignBuilder()
	tt := db.tileType("CLBLL_L")
	tt.Bels = append(tt.Bels, xc7.BelData{Name: "AFF", Site: 0, Z: (0 << 6) | (0 << 4) | xc7.BelFF})
	tileA := db.addTile("CLBLL_L_X2Y10", "CLBLL_L", "SLICE_X0Y10")
	tileB := db.addTile("CLBLL_L_X2Y11", "CLBLL_L", "SLICE_X0Y11")

	for i, tile := range []int{tileA, tileB} {
		ff := db.addCell("ff"+string(rune('0'+i)), "SLICE_FF", xc7.BelId{Tile: tile, Index: 0})
		ff.Attrs["X_ORIG_TYPE"] = xc7.StringProp("FDRE")
	}

	got := emit(t, db.build())
	if bytes.Contains([]byte(got), []byte("\n\n\n")) {
		t.Fatalf("consecutive blank lines in output:\n%q", got)
	}
}
