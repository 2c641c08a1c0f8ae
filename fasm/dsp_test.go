package fasm

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/openxc7/fasmout/xc7"
)

func TestReversedBits(t *testing.T) {
	// Excess source bits truncate, missing high bits read as one.
	bits := reversedBits("0011", 3)
	if !(bits[0] == true && bits[1] == true && bits[2] == false) {
		t.Fatalf("unexpected truncation result: %v", bits)
	}

	bits = reversedBits("10", 4)
	if !(bits[0] == false && bits[1] == true && bits[2] == true && bits[3] == true) {
		t.Fatalf("unexpected padding result: %v", bits)
	}
}

func TestStripDigits(t *testing.T) {
	if got := stripDigits("RSTD17"); got != "RSTD" {
		t.Fatalf("got %s, want RSTD", got)
	}
	if got := stripDigits("CEA2"); got != "CEA" {
		t.Fatalf("got %s, want CEA", got)
	}
}

func dspDesign(params map[string]xc7.Property, attrs map[string]xc7.Property) *xc7.Design {
	db := newDesignBuilder()
	tt := db.tileType("DSP_R")
	tt.Bels = []xc7.BelData{{Name: "DSP48E1", Site: 0, SiteX: 0, SiteY: 1}}
	tile := db.addTile("DSP_R_X9Y65", "DSP_R")

	dsp := db.addCell("dsp0", "DSP48E1_DSP48E1", xc7.BelId{Tile: tile, Index: 0})
	for k, v := range params {
		dsp.Params[k] = v
	}
	for k, v := range attrs {
		dsp.Attrs[k] = v
	}
	return db.build()
}

func runIp(t *testing.T, d *xc7.Design) string {
	t.Helper()
	var buf bytes.Buffer
	b := newBackend(d, bufio.NewWriter(&buf))
	b.writeIp()
	if err := b.out.Flush(); err != nil {
		t.Fatalf("flush failed: %s", err)
	}
	return buf.String()
}

// With default parameters the register enables emit their inverted-polarity
// Z bits and the default mask truncates to 46 bits.
func TestDspDefaults(t *testing.T) {
	got := runIp(t, dspDesign(nil, nil))

	for _, want := range []string{
		"DSP_R_X9Y65.DSP48.DSP_1.MASK[45:0] = 46'b" + strings.Repeat("1", 46) + "\n",
		"DSP_R_X9Y65.DSP48.DSP_1.ZALUMODEREG[0]\n",
		"DSP_R_X9Y65.DSP48.DSP_1.ZMREG[0]\n",
		"DSP_R_X9Y65.DSP48.DSP_1.ZIS_CLK_INVERTED\n",
		"DSP_R_X9Y65.DSP48.DSP_1.ZIS_OPMODE_INVERTED[6]\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
	// ADREG defaults to one, so its Z bit stays clear.
	if strings.Contains(got, "ZADREG[0]") {
		t.Fatalf("ZADREG emitted for default ADREG:\n%s", got)
	}
}

// Constant pins emit against the tile side, flipping the rail for inverted
// pins.
func TestDspConstPins(t *testing.T) {
	got := runIp(t, dspDesign(
		map[string]xc7.Property{"IS_RSTD_INVERTED": xc7.IntProp(1)},
		map[string]xc7.Property{"DSP_GND_PINS": xc7.StringProp("RSTD17 CEA2")},
	))

	if !strings.Contains(got, "DSP_R_X9Y65.DSP_1_RSTD17.DSP_VCC_R\n") {
		t.Fatalf("inverted GND pin not flipped to VCC:\n%s", got)
	}
	if !strings.Contains(got, "DSP_R_X9Y65.DSP_1_CEA2.DSP_GND_R\n") {
		t.Fatalf("plain GND pin missing:\n%s", got)
	}
}

// SIMD modes and cascaded operand inputs emit their selector bits.
func TestDspSimdAndCascade(t *testing.T) {
	got := runIp(t, dspDesign(map[string]xc7.Property{
		"USE_SIMD": xc7.StringProp("FOUR12"),
		"A_INPUT":  xc7.StringProp("CASCADE"),
		"AREG":     xc7.IntProp(2),
	}, nil))

	for _, want := range []string{
		"DSP_R_X9Y65.DSP48.DSP_1.USE_SIMD_FOUR12\n",
		"DSP_R_X9Y65.DSP48.DSP_1.A_INPUT[0]\n",
		"DSP_R_X9Y65.DSP48.DSP_1.AREG_2\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}

// A 48-bit pattern emits in full once the parameter is present.
func TestDspPattern(t *testing.T) {
	pattern := strings.Repeat("10", 24)
	got := runIp(t, dspDesign(map[string]xc7.Property{
		"PATTERN": xc7.StringProp(pattern),
	}, nil))

	if !strings.Contains(got, "DSP_1.PATTERN[47:0] = 48'b"+pattern+"\n") {
		t.Fatalf("missing pattern vector:\n%s", got)
	}
}
