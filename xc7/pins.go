package xc7

// bramControlPins are the block RAM control pins carrying an
// IS_<pin>_INVERTED configuration bit, in emission order.
var bramControlPins = []string{
	"CLKARDCLK",
	"CLKBWRCLK",
	"ENARDEN",
	"ENBWREN",
	"RSTRAMARSTRAM",
	"RSTRAMB",
	"RSTREGARSTREG",
	"RSTREGB",
}

// InvertiblePins returns, per original cell type, the pins that carry an
// IS_<pin>_INVERTED configuration bit. The slices are sorted so iteration
// over them is deterministic.
func InvertiblePins() map[string][]string {
	return map[string][]string{
		"RAMB18E1": bramControlPins,
		"RAMB36E1": bramControlPins,
	}
}
