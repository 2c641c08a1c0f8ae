package xc7

import (
	"strings"

	"github.com/openxc7/fasmout/util"
)

// Pip flag values. Only tile-routing pips correspond to interconnect
// configuration bits; the other kinds are internal to a site.
const (
	PipTileRouting  = 0
	PipSiteEntry    = 1
	PipSiteExit     = 2
	PipSiteInternal = 3
)

// Wire intent sentinels for the constant pseudo networks.
const (
	IntentPseudoGND = "PSEUDO_GND"
	IntentPseudoVCC = "PSEUDO_VCC"
)

// Names of the constant nets introduced by the packer.
const (
	PackerGndNet = "$PACKER_GND_NET"
	PackerVccNet = "$PACKER_VCC_NET"
)

// Logic tile sub-slot indices. A slot key packs (half<<6)|(letter<<4)|slot.
const (
	Bel6LUT   = 0
	Bel5LUT   = 1
	BelFF     = 2
	BelFF2    = 3
	BelCarry4 = 4
)

// BRAM tile sub-slot indices.
const (
	BelRam36  = 0
	BelRam18L = 1
	BelRam18U = 2
)

// WireId identifies a wire as (tile, index into the tile type's wire list).
type WireId struct {
	Tile  int
	Index int
}

// PipId identifies a pip as (tile, index into the tile type's pip list).
type PipId struct {
	Tile  int
	Index int
}

// BelId identifies a bel as (tile, index into the tile type's bel list).
type BelId struct {
	Tile  int
	Index int
}

// NilPip is the "no pip drove this wire" sentinel.
var NilPip = PipId{Tile: -1, Index: -1}

// Less orders wire ids by tile, then index.
func (w WireId) Less(o WireId) bool {
	if w.Tile != o.Tile {
		return w.Tile < o.Tile
	}
	return w.Index < o.Index
}

// WireData describes one wire of a tile type.
type WireData struct {
	Name   string
	Site   int // site tag within the tile, -1 for general routing
	Intent string
}

// PipData describes one pip of a tile type. Tile-routing pips may carry a
// route-thru marker in Extra; site pips carry the bel and pin they configure.
type PipData struct {
	SrcIndex int
	DstIndex int
	Flags    int
	Extra    int
	Bel      string
	Pin      string
}

// BelData describes one bel of a tile type.
type BelData struct {
	Name  string
	Site  int
	SiteX int
	SiteY int
	Z     int
	Pins  map[string]int // bel pin name -> wire index
}

// TileType is the per-type catalogue of wires, pips and bels.
type TileType struct {
	Name  string
	Wires []WireData
	Pips  []PipData
	Bels  []BelData

	wireIdx map[string]int
	belZ    map[int]int
	uphill  map[int][]int
}

func (tt *TileType) buildIndex() {
	tt.wireIdx = make(map[string]int, len(tt.Wires))
	for i, w := range tt.Wires {
		tt.wireIdx[w.Name] = i
	}
	tt.belZ = make(map[int]int, len(tt.Bels))
	for i, b := range tt.Bels {
		tt.belZ[b.Z] = i
	}
	tt.uphill = make(map[int][]int)
	for i, p := range tt.Pips {
		tt.uphill[p.DstIndex] = append(tt.uphill[p.DstIndex], i)
	}
}

// TileInst is one tile of the grid.
type TileInst struct {
	Name  string
	Type  string
	Sites []string // instance site names, indexed by site tag
}

// PortRef is one endpoint of a net.
type PortRef struct {
	Cell *CellInfo
	Port string
}

// NetInfo is a routed net.
type NetInfo struct {
	Name   string
	Driver *PortRef
	Users  []PortRef
	// Wires maps every wire of the net to the pip that drove onto it
	// (NilPip for the source wire).
	Wires map[WireId]PipId
}

// CellInfo is a placed cell.
type CellInfo struct {
	Name   string
	Type   string
	Bel    BelId
	Params map[string]Property
	Attrs  map[string]Property
	Ports  map[string]*NetInfo
}

// Net returns the net bound to the given port, or nil.
func (ci *CellInfo) Net(port string) *NetInfo {
	return ci.Ports[port]
}

// StrParam returns the named parameter as a string, or def if absent.
func (ci *CellInfo) StrParam(name, def string) string {
	if p, ok := ci.Params[name]; ok {
		return p.AsString()
	}
	return def
}

// IntParam returns the named parameter as an integer, or def if absent.
func (ci *CellInfo) IntParam(name string, def int64) int64 {
	if p, ok := ci.Params[name]; ok {
		return p.AsInt64()
	}
	return def
}

// BoolParam returns the named parameter as a boolean, or def if absent.
func (ci *CellInfo) BoolParam(name string, def bool) bool {
	if p, ok := ci.Params[name]; ok {
		return p.AsBool()
	}
	return def
}

// FloatParam returns the named parameter as a float, or def if absent.
func (ci *CellInfo) FloatParam(name string, def float64) float64 {
	if p, ok := ci.Params[name]; ok {
		return p.AsFloat64()
	}
	return def
}

// HasParam reports whether the named parameter is present.
func (ci *CellInfo) HasParam(name string) bool {
	_, ok := ci.Params[name]
	return ok
}

// Param returns the named parameter and whether it is present.
func (ci *CellInfo) Param(name string) (Property, bool) {
	p, ok := ci.Params[name]
	return p, ok
}

// StrAttr returns the named attribute as a string, or def if absent.
func (ci *CellInfo) StrAttr(name, def string) string {
	if a, ok := ci.Attrs[name]; ok {
		return a.AsString()
	}
	return def
}

// HasAttr reports whether the named attribute is present.
func (ci *CellInfo) HasAttr(name string) bool {
	_, ok := ci.Attrs[name]
	return ok
}

// LogicTileStatus holds the cells bound into the logic sub-slots of a tile,
// indexed by the packed slot key.
type LogicTileStatus struct {
	Cells [128]*CellInfo
}

// BramTileStatus holds the cells bound into the BRAM sub-slots of a tile.
type BramTileStatus struct {
	Cells [3]*CellInfo
}

// TileStatus aggregates the per-tile placement state.
type TileStatus struct {
	LTS *LogicTileStatus
	BTS *BramTileStatus
}

// Design is a fully placed and routed design together with the device
// database it is bound to. It is read-only during emission.
type Design struct {
	Width  int
	Height int

	TileTypes map[string]*TileType
	Tiles     []TileInst

	Cells util.OrderedMap[string, *CellInfo]
	Nets  util.OrderedMap[string, *NetInfo]

	TileStatus []TileStatus

	// IoiHclk and IobHclk associate IOI/IOB tiles with the HCLK tile of
	// their bank.
	IoiHclk map[int]int
	IobHclk map[int]int

	tileIdx map[string]int
	pipNet  map[PipId]*NetInfo
	wireNet map[WireId]*NetInfo
	belCell map[BelId]*CellInfo
}

// Finalize builds the lookup indices after the design has been populated.
// It must be called once before emission.
func (d *Design) Finalize() {
	for _, tt := range d.TileTypes {
		tt.buildIndex()
	}
	d.tileIdx = make(map[string]int, len(d.Tiles))
	for i, t := range d.Tiles {
		d.tileIdx[t.Name] = i
	}

	d.pipNet = make(map[PipId]*NetInfo)
	d.wireNet = make(map[WireId]*NetInfo)
	for _, net := range d.Nets.Values() {
		for w, p := range net.Wires {
			d.wireNet[w] = net
			if p != NilPip {
				d.pipNet[p] = net
			}
		}
	}

	d.belCell = make(map[BelId]*CellInfo)
	if d.TileStatus == nil {
		d.TileStatus = make([]TileStatus, len(d.Tiles))
	}
	for _, ci := range d.Cells.Values() {
		d.belCell[ci.Bel] = ci
		d.bindTileStatus(ci)
	}
}

func (d *Design) bindTileStatus(ci *CellInfo) {
	tile := ci.Bel.Tile
	if tile < 0 || tile >= len(d.Tiles) {
		return
	}
	tt := d.LocInfo(tile)
	z := tt.Bels[ci.Bel.Index].Z
	typeName := d.Tiles[tile].Type
	switch {
	case strings.HasPrefix(typeName, "CLB"):
		if d.TileStatus[tile].LTS == nil {
			d.TileStatus[tile].LTS = &LogicTileStatus{}
		}
		if z >= 0 && z < len(d.TileStatus[tile].LTS.Cells) {
			d.TileStatus[tile].LTS.Cells[z] = ci
		}
	case typeName == "BRAM_L" || typeName == "BRAM_R":
		if d.TileStatus[tile].BTS == nil {
			d.TileStatus[tile].BTS = &BramTileStatus{}
		}
		if z >= 0 && z < len(d.TileStatus[tile].BTS.Cells) {
			d.TileStatus[tile].BTS.Cells[z] = ci
		}
	}
}

// LocInfo returns the tile type catalogue for a tile.
func (d *Design) LocInfo(tile int) *TileType {
	return d.TileTypes[d.Tiles[tile].Type]
}

// TileName returns the instance name of a tile.
func (d *Design) TileName(tile int) string {
	return d.Tiles[tile].Name
}

// TileTypeName returns the type name of a tile.
func (d *Design) TileTypeName(tile int) string {
	return d.Tiles[tile].Type
}

// WireIntent returns the intent category of a wire.
func (d *Design) WireIntent(w WireId) string {
	return d.LocInfo(w.Tile).Wires[w.Index].Intent
}

// WireName returns the type-level name of a wire.
func (d *Design) WireName(w WireId) string {
	return d.LocInfo(w.Tile).Wires[w.Index].Name
}

// PipSrcWire returns the source wire of a pip.
func (d *Design) PipSrcWire(p PipId) WireId {
	return WireId{p.Tile, d.LocInfo(p.Tile).Pips[p.Index].SrcIndex}
}

// PipDstWire returns the destination wire of a pip.
func (d *Design) PipDstWire(p PipId) WireId {
	return WireId{p.Tile, d.LocInfo(p.Tile).Pips[p.Index].DstIndex}
}

// PipData returns the catalogue record of a pip.
func (d *Design) PipData(p PipId) *PipData {
	return &d.LocInfo(p.Tile).Pips[p.Index]
}

// PipsUphill returns the pips whose destination is the given wire, in
// catalogue order.
func (d *Design) PipsUphill(w WireId) []PipId {
	tt := d.LocInfo(w.Tile)
	idx := tt.uphill[w.Index]
	pips := make([]PipId, len(idx))
	for i, pi := range idx {
		pips[i] = PipId{w.Tile, pi}
	}
	return pips
}

// BoundPipNet returns the net routed through a pip, or nil.
func (d *Design) BoundPipNet(p PipId) *NetInfo {
	return d.pipNet[p]
}

// BoundWireNet returns the net bound to a wire, or nil.
func (d *Design) BoundWireNet(w WireId) *NetInfo {
	return d.wireNet[w]
}

// BoundBelCell returns the cell placed on a bel, or nil.
func (d *Design) BoundBelCell(b BelId) *CellInfo {
	return d.belCell[b]
}

// HclkForIoi returns the HCLK tile of the bank an IOI tile belongs to.
func (d *Design) HclkForIoi(tile int) int {
	if h, ok := d.IoiHclk[tile]; ok {
		return h
	}
	return tile
}

// HclkForIob returns the HCLK tile of the bank an IOB bel belongs to.
func (d *Design) HclkForIob(bel BelId) int {
	if h, ok := d.IobHclk[bel.Tile]; ok {
		return h
	}
	return bel.Tile
}

// SiteLocInTile returns the x/y position of a bel's site within its tile.
func (d *Design) SiteLocInTile(bel BelId) (x, y int) {
	bd := &d.LocInfo(bel.Tile).Bels[bel.Index]
	return bd.SiteX, bd.SiteY
}

// BelSite returns the instance name of a bel's site.
func (d *Design) BelSite(bel BelId) string {
	bd := &d.LocInfo(bel.Tile).Bels[bel.Index]
	sites := d.Tiles[bel.Tile].Sites
	if bd.Site >= 0 && bd.Site < len(sites) {
		return sites[bd.Site]
	}
	return ""
}

// BelName returns the type-level name of a bel.
func (d *Design) BelName(bel BelId) string {
	return d.LocInfo(bel.Tile).Bels[bel.Index].Name
}

// BelByZ returns the bel at the packed slot key z of a tile.
func (d *Design) BelByZ(tile, z int) (BelId, bool) {
	i, ok := d.LocInfo(tile).belZ[z]
	if !ok {
		return BelId{}, false
	}
	return BelId{tile, i}, true
}

// BelByName resolves a "<site>/<bel>" name to a bel id.
func (d *Design) BelByName(name string) (BelId, bool) {
	slash := strings.Index(name, "/")
	if slash < 0 {
		return BelId{}, false
	}
	site := name[:slash]
	bel := name[slash+1:]
	for tile := range d.Tiles {
		tt := d.LocInfo(tile)
		for i := range tt.Bels {
			bd := &tt.Bels[i]
			if bd.Name != bel {
				continue
			}
			sites := d.Tiles[tile].Sites
			if bd.Site >= 0 && bd.Site < len(sites) && sites[bd.Site] == site {
				return BelId{tile, i}, true
			}
		}
	}
	return BelId{}, false
}

// BelPinWire returns the site wire attached to a bel pin.
func (d *Design) BelPinWire(bel BelId, pin string) (WireId, bool) {
	bd := &d.LocInfo(bel.Tile).Bels[bel.Index]
	idx, ok := bd.Pins[pin]
	if !ok {
		return WireId{}, false
	}
	return WireId{bel.Tile, idx}, true
}

// SiteWire returns the named wire belonging to the same site as a bel.
func (d *Design) SiteWire(bel BelId, name string) (WireId, bool) {
	tt := d.LocInfo(bel.Tile)
	site := tt.Bels[bel.Index].Site
	for i := range tt.Wires {
		if tt.Wires[i].Site == site && tt.Wires[i].Name == name {
			return WireId{bel.Tile, i}, true
		}
	}
	return WireId{}, false
}

// WireByName resolves a tile instance name and wire name to a wire id.
func (d *Design) WireByName(tileName, wireName string) (WireId, bool) {
	tile, ok := d.tileIdx[tileName]
	if !ok {
		return WireId{}, false
	}
	idx, ok := d.LocInfo(tile).wireIdx[wireName]
	if !ok {
		return WireId{}, false
	}
	return WireId{tile, idx}, true
}

// IsLogicTile reports whether a bel sits in a CLB tile.
func (d *Design) IsLogicTile(bel BelId) bool {
	return strings.HasPrefix(d.Tiles[bel.Tile].Type, "CLB")
}
