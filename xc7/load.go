package xc7

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/openxc7/fasmout/util"
)

// The snapshot format is a YAML rendition of the bound design: the tile
// grid with its type catalogues, every placed cell with parameters and
// attributes, and every net with its routing.

type snapshotWire struct {
	Name   string `yaml:"name"`
	Site   *int   `yaml:"site,omitempty"`
	Intent string `yaml:"intent,omitempty"`
}

type snapshotPip struct {
	Src   int    `yaml:"src"`
	Dst   int    `yaml:"dst"`
	Flags int    `yaml:"flags,omitempty"`
	Extra int    `yaml:"extra,omitempty"`
	Bel   string `yaml:"bel,omitempty"`
	Pin   string `yaml:"pin,omitempty"`
}

type snapshotBel struct {
	Name string         `yaml:"name"`
	Site int            `yaml:"site"`
	X    int            `yaml:"x"`
	Y    int            `yaml:"y"`
	Z    int            `yaml:"z"`
	Pins map[string]int `yaml:"pins,omitempty"`
}

type snapshotTileType struct {
	Wires []snapshotWire `yaml:"wires"`
	Pips  []snapshotPip  `yaml:"pips"`
	Bels  []snapshotBel  `yaml:"bels"`
}

type snapshotTile struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Sites []string `yaml:"sites,omitempty"`
}

type snapshotRef struct {
	Tile  int `yaml:"tile"`
	Index int `yaml:"index"`
}

type snapshotCell struct {
	Type   string                 `yaml:"type"`
	Bel    snapshotRef            `yaml:"bel"`
	Params map[string]interface{} `yaml:"params,omitempty"`
	Attrs  map[string]interface{} `yaml:"attrs,omitempty"`
	Ports  map[string]string      `yaml:"ports,omitempty"`
}

type snapshotPort struct {
	Cell string `yaml:"cell"`
	Port string `yaml:"port"`
}

type snapshotNetWire struct {
	Tile  int          `yaml:"tile"`
	Index int          `yaml:"index"`
	Pip   *snapshotRef `yaml:"pip,omitempty"`
}

type snapshotNet struct {
	Driver *snapshotPort     `yaml:"driver,omitempty"`
	Users  []snapshotPort    `yaml:"users,omitempty"`
	Wires  []snapshotNetWire `yaml:"wires,omitempty"`
}

type snapshot struct {
	Width     int                         `yaml:"width"`
	Height    int                         `yaml:"height"`
	TileTypes map[string]snapshotTileType `yaml:"tiletypes"`
	Tiles     []snapshotTile              `yaml:"tiles"`
	Cells     map[string]snapshotCell     `yaml:"cells"`
	Nets      map[string]snapshotNet      `yaml:"nets"`
	IoiHclk   map[int]int                 `yaml:"ioiHclk,omitempty"`
	IobHclk   map[int]int                 `yaml:"iobHclk,omitempty"`
}

func convertProps(raw map[string]interface{}) (map[string]Property, error) {
	props := make(map[string]Property, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			props[name] = ParseProp(val)
		case int:
			props[name] = IntProp(int64(val))
		case int64:
			props[name] = IntProp(val)
		case bool:
			if val {
				props[name] = IntProp(1)
			} else {
				props[name] = IntProp(0)
			}
		case float64:
			props[name] = StringProp(fmt.Sprintf("%g", val))
		default:
			return nil, errors.Errorf("unsupported value for '%s': %v", name, v)
		}
	}
	return props, nil
}

// ParseDesign builds a Design from a YAML snapshot.
func ParseDesign(data []byte) (*Design, error) {
	var snap snapshot
	if err := yaml.UnmarshalStrict(data, &snap); err != nil {
		return nil, errors.Wrap(err, "parsing design snapshot")
	}

	d := &Design{
		Width:     snap.Width,
		Height:    snap.Height,
		TileTypes: make(map[string]*TileType, len(snap.TileTypes)),
		Tiles:     make([]TileInst, 0, len(snap.Tiles)),
		Cells:     util.NewOrderedMap[string, *CellInfo](),
		Nets:      util.NewOrderedMap[string, *NetInfo](),
		IoiHclk:   snap.IoiHclk,
		IobHclk:   snap.IobHclk,
	}
	if d.IoiHclk == nil {
		d.IoiHclk = map[int]int{}
	}
	if d.IobHclk == nil {
		d.IobHclk = map[int]int{}
	}

	for name, stt := range snap.TileTypes {
		tt := &TileType{Name: name}
		for _, w := range stt.Wires {
			site := -1
			if w.Site != nil {
				site = *w.Site
			}
			tt.Wires = append(tt.Wires, WireData{Name: w.Name, Site: site, Intent: w.Intent})
		}
		for _, p := range stt.Pips {
			if p.Src < 0 || p.Src >= len(tt.Wires) || p.Dst < 0 || p.Dst >= len(tt.Wires) {
				return nil, errors.Errorf("tile type '%s': pip wire index out of range", name)
			}
			tt.Pips = append(tt.Pips, PipData{
				SrcIndex: p.Src,
				DstIndex: p.Dst,
				Flags:    p.Flags,
				Extra:    p.Extra,
				Bel:      p.Bel,
				Pin:      p.Pin,
			})
		}
		for _, b := range stt.Bels {
			tt.Bels = append(tt.Bels, BelData{
				Name:  b.Name,
				Site:  b.Site,
				SiteX: b.X,
				SiteY: b.Y,
				Z:     b.Z,
				Pins:  b.Pins,
			})
		}
		d.TileTypes[name] = tt
	}

	for _, t := range snap.Tiles {
		if _, ok := d.TileTypes[t.Type]; !ok {
			return nil, errors.Errorf("tile '%s' has unknown type '%s'", t.Name, t.Type)
		}
		d.Tiles = append(d.Tiles, TileInst{Name: t.Name, Type: t.Type, Sites: t.Sites})
	}

	cells := make(map[string]*CellInfo, len(snap.Cells))
	for name, sc := range snap.Cells {
		params, err := convertProps(sc.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "cell '%s' params", name)
		}
		attrs, err := convertProps(sc.Attrs)
		if err != nil {
			return nil, errors.Wrapf(err, "cell '%s' attrs", name)
		}
		ci := &CellInfo{
			Name:   name,
			Type:   sc.Type,
			Bel:    BelId{sc.Bel.Tile, sc.Bel.Index},
			Params: params,
			Attrs:  attrs,
			Ports:  make(map[string]*NetInfo, len(sc.Ports)),
		}
		cells[name] = ci
		d.Cells.Insert(name, ci)
	}

	for name, sn := range snap.Nets {
		ni := &NetInfo{
			Name:  name,
			Wires: make(map[WireId]PipId, len(sn.Wires)),
		}
		if sn.Driver != nil {
			cell, ok := cells[sn.Driver.Cell]
			if !ok {
				return nil, errors.Errorf("net '%s' driven by unknown cell '%s'", name, sn.Driver.Cell)
			}
			ni.Driver = &PortRef{Cell: cell, Port: sn.Driver.Port}
		}
		for _, u := range sn.Users {
			cell, ok := cells[u.Cell]
			if !ok {
				return nil, errors.Errorf("net '%s' used by unknown cell '%s'", name, u.Cell)
			}
			ni.Users = append(ni.Users, PortRef{Cell: cell, Port: u.Port})
		}
		for _, w := range sn.Wires {
			pip := NilPip
			if w.Pip != nil {
				pip = PipId{w.Pip.Tile, w.Pip.Index}
			}
			ni.Wires[WireId{w.Tile, w.Index}] = pip
		}
		d.Nets.Insert(name, ni)
	}

	// Bind cell ports now that all nets exist.
	for name, sc := range snap.Cells {
		ci := cells[name]
		for port, netName := range sc.Ports {
			if netName == "" {
				continue
			}
			net, ok := d.Nets.Lookup(netName)
			if !ok {
				return nil, errors.Errorf("cell '%s' port '%s' references unknown net '%s'", name, port, netName)
			}
			ci.Ports[port] = net
		}
	}

	d.Finalize()
	return d, nil
}

// LoadDesign reads and parses a YAML design snapshot file.
func LoadDesign(path string) (*Design, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading design snapshot")
	}
	return ParseDesign(data)
}
