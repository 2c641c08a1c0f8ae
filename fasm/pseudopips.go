package fasm

import "strconv"

// pseudoPipKey identifies a pseudo pip by tile type and the names of its
// destination and source wires. Source and destination are distinct fields;
// the key is direction-sensitive.
type pseudoPipKey struct {
	tileType string
	dst      string
	src      string
}

// buildPseudoPips constructs the mapping from pseudo pip key to the config
// features set when that pseudo pip is used. An empty feature list means the
// pip is known and legal but emits nothing.
func buildPseudoPips() map[pseudoPipKey][]string {
	pp := make(map[pseudoPipKey][]string)

	for _, s := range []string{"L", "R"} {
		for _, s2 := range []string{"", "_TBYTESRC", "_TBYTETERM", "_SING"} {
			indices := []string{"0", "1"}
			if s2 == "_SING" {
				indices = []string{"", "0", "1"}
			}
			for _, i := range indices {
				pp[pseudoPipKey{s + "IOI3" + s2, s + "IOI_OLOGIC" + i + "_OQ", "IOI_OLOGIC" + i + "_D1"}] = []string{
					"OLOGIC_Y" + i + ".OMUX.D1",
					"OLOGIC_Y" + i + ".OQUSED",
					"OLOGIC_Y" + i + ".OSERDES.DATA_RATE_TQ.BUF",
				}
				pp[pseudoPipKey{s + "IOI3" + s2, "IOI_ILOGIC" + i + "_O", s + "IOI_ILOGIC" + i + "_D"}] = []string{
					"IDELAY_Y" + i + ".IDELAY_TYPE_FIXED",
					"ILOGIC_Y" + i + ".ZINV_D",
				}
				pp[pseudoPipKey{s + "IOI3" + s2, "IOI_ILOGIC" + i + "_O", s + "IOI_ILOGIC" + i + "_DDLY"}] = []string{
					"ILOGIC_Y" + i + ".IDELMUXE3.P0",
					"ILOGIC_Y" + i + ".ZINV_D",
				}
				pp[pseudoPipKey{s + "IOI3" + s2, s + "IOI_OLOGIC" + i + "_TQ", "IOI_OLOGIC" + i + "_T1"}] = []string{
					"OLOGIC_Y" + i + ".ZINV_T1",
				}
				if i == "0" {
					pp[pseudoPipKey{s + "IOB33" + s2, "IOB_O_IN1", "IOB_O_OUT0"}] = nil
					pp[pseudoPipKey{s + "IOB33" + s2, "IOB_O_OUT0", "IOB_O0"}] = nil
					pp[pseudoPipKey{s + "IOB33" + s2, "IOB_T_IN1", "IOB_T_OUT0"}] = nil
					pp[pseudoPipKey{s + "IOB33" + s2, "IOB_T_OUT0", "IOB_T0"}] = nil
					pp[pseudoPipKey{s + "IOB33" + s2, "IOB_DIFFI_IN0", "IOB_PADOUT1"}] = nil
				}
			}
		}
	}

	for _, s2 := range []string{"", "_TBYTESRC", "_TBYTETERM", "_SING"} {
		indices := []string{"0", "1"}
		if s2 == "_SING" {
			indices = []string{"0"}
		}
		for _, i := range indices {
			pp[pseudoPipKey{"RIOI" + s2, "RIOI_OLOGIC" + i + "_OQ", "IOI_OLOGIC" + i + "_D1"}] = []string{
				"OLOGIC_Y" + i + ".OMUX.D1",
				"OLOGIC_Y" + i + ".OQUSED",
				"OLOGIC_Y" + i + ".OSERDES.DATA_RATE_TQ.BUF",
			}
			pp[pseudoPipKey{"RIOI" + s2, "RIOI_OLOGIC" + i + "_OFB", "RIOI_OLOGIC" + i + "_OQ"}] = nil
			pp[pseudoPipKey{"RIOI" + s2, "RIOI_O" + i, "RIOI_ODELAY" + i + "_DATAOUT"}] = nil
			pp[pseudoPipKey{"RIOI" + s2, "RIOI_OLOGIC" + i + "_OFB", "IOI_OLOGIC" + i + "_D1"}] = []string{
				"OLOGIC_Y" + i + ".OMUX.D1",
				"OLOGIC_Y" + i + ".OSERDES.DATA_RATE_TQ.BUF",
			}
			pp[pseudoPipKey{"RIOI" + s2, "IOI_ILOGIC" + i + "_O", "RIOI_ILOGIC" + i + "_D"}] = []string{
				"ILOGIC_Y" + i + ".ZINV_D",
			}
			pp[pseudoPipKey{"RIOI" + s2, "IOI_ILOGIC" + i + "_O", "RIOI_ILOGIC" + i + "_DDLY"}] = []string{
				"ILOGIC_Y" + i + ".IDELMUXE3.P0",
				"ILOGIC_Y" + i + ".ZINV_D",
			}
			pp[pseudoPipKey{"RIOI" + s2, "RIOI_OLOGIC" + i + "_TQ", "IOI_OLOGIC" + i + "_T1"}] = []string{
				"OLOGIC_Y" + i + ".ZINV_T1",
			}
			pp[pseudoPipKey{"RIOI" + s2, "RIOI_OLOGIC" + i + "_OFB", "RIOI_ODELAY" + i + "_ODATAIN"}] = []string{
				"OLOGIC_Y" + i + ".ZINV_ODATAIN",
			}
			if i == "0" {
				pp[pseudoPipKey{"RIOB18" + s2, "IOB_O_IN1", "IOB_O_OUT0"}] = nil
				pp[pseudoPipKey{"RIOB18" + s2, "IOB_O_OUT0", "IOB_O0"}] = nil
				pp[pseudoPipKey{"RIOB18" + s2, "IOB_T_IN1", "IOB_T_OUT0"}] = nil
				pp[pseudoPipKey{"RIOB18" + s2, "IOB_T_OUT0", "IOB_T0"}] = nil
				pp[pseudoPipKey{"RIOB18" + s2, "IOB_DIFFI_IN0", "IOB_PADOUT1"}] = nil
			}
		}
	}

	for _, s1 := range []string{"TOP", "BOT"} {
		for _, s2 := range []string{"L", "R"} {
			for i := 0; i < 12; i++ {
				ii := strconv.Itoa(i)
				hck := s2 + ii
				buf := "X0Y" + ii
				if s2 == "R" {
					buf = "X1Y" + ii
				}
				pp[pseudoPipKey{"CLK_HROW_" + s1 + "_R", "CLK_HROW_CK_HCLK_OUT_" + hck, "CLK_HROW_CK_MUX_OUT_" + hck}] = []string{
					"BUFHCE.BUFHCE_" + buf + ".IN_USE",
					"BUFHCE.BUFHCE_" + buf + ".ZINV_CE",
				}
			}
		}

		for i := 0; i < 16; i++ {
			ii := strconv.Itoa(i)
			pp[pseudoPipKey{"CLK_BUFG_" + s1 + "_R", "CLK_BUFG_BUFGCTRL" + ii + "_O", "CLK_BUFG_BUFGCTRL" + ii + "_I0"}] = []string{
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".IN_USE",
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".IS_IGNORE1_INVERTED",
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".ZINV_CE0",
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".ZINV_S0",
			}
			pp[pseudoPipKey{"CLK_BUFG_" + s1 + "_R", "CLK_BUFG_BUFGCTRL" + ii + "_O", "CLK_BUFG_BUFGCTRL" + ii + "_I1"}] = []string{
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".IN_USE",
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".IS_IGNORE0_INVERTED",
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".ZINV_CE1",
				"BUFGCTRL.BUFGCTRL_X0Y" + ii + ".ZINV_S1",
			}
		}
	}

	rclkYToI := [4]int{2, 3, 0, 1}
	for y := 0; y < 4; y++ {
		yy := strconv.Itoa(y)
		ii := strconv.Itoa(rclkYToI[y])
		features := []string{
			"BUFR_Y" + yy + ".IN_USE",
			"BUFR_Y" + yy + ".BUFR_DIVIDE.BYPASS",
		}
		pp[pseudoPipKey{"HCLK_IOI3", "HCLK_IOI_RCLK_OUT" + ii, "HCLK_IOI_RCLK_BEFORE_DIV" + ii}] = features
		pp[pseudoPipKey{"HCLK_IOI", "HCLK_IOI_RCLK_OUT" + ii, "HCLK_IOI_RCLK_BEFORE_DIV" + ii}] = features
	}

	// The interface LOGIC_OUTS hops configure nothing but are known legal.
	for _, s := range []string{"L", "R"} {
		for i := 0; i < 24; i++ {
			ii := strconv.Itoa(i)
			pp[pseudoPipKey{"INT_INTERFACE_" + s, "INT_INTERFACE_LOGIC_OUTS_" + s + ii, "INT_INTERFACE_LOGIC_OUTS_" + s + "_B" + ii}] = nil
		}
	}

	return pp
}
