package fasm

import (
	"strconv"
	"strings"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/util"
	"github.com/openxc7/fasmout/xc7"
)

// bankIoConfig accumulates the bank-level settings implied by the pads of
// one I/O bank, keyed by the bank's HCLK tile.
type bankIoConfig struct {
	stepdown bool
	vref     bool
	tmds33   bool
	lvds25   bool
	onlyDiff bool
}

func (b *backend) bankConfig(hclk int) *bankIoConfig {
	cfg, ok := b.ioconfigByHclk[hclk]
	if !ok {
		cfg = &bankIoConfig{}
		b.ioconfigByHclk[hclk] = cfg
	}
	return cfg
}

func (b *backend) writeIoConfig(pad *xc7.CellInfo) {
	padNet := pad.Net("PAD")
	if padNet == nil {
		log.Fatal("PAD cell '%s' has no PAD net\n", pad.Name)
	}
	iostandard := pad.StrAttr("IOSTANDARD", "LVCMOS33")
	pulltype := pad.StrAttr("PULLTYPE", "NONE")
	slew := pad.StrAttr("SLEW", "SLOW")

	_, ioY := b.d.SiteLocInTile(pad.Bel)
	isOutput := padNet.Driver != nil && padNet.Driver.Cell != nil
	isInput := false
	for _, usr := range padNet.Users {
		if strings.Contains(usr.Cell.Type, "INBUF") {
			isInput = true
		}
	}
	tile := b.d.TileName(pad.Bel.Tile)
	b.push(tile)

	isRiob18 := strings.HasPrefix(tile, "RIOB18_")
	isSing := strings.Contains(tile, "_SING_")
	isTopSing := pad.Bel.Tile < b.d.HclkForIob(pad.Bel)
	isStepdown := false
	isLvcmos := strings.HasPrefix(iostandard, "LVCMOS")
	isLowVoltLvcmos := iostandard == "LVCMOS12" || iostandard == "LVCMOS15" || iostandard == "LVCMOS18"

	yLoc := 1 - ioY
	if isSing {
		if isTopSing {
			yLoc = 1
		} else {
			yLoc = 0
		}
	}
	b.push("IOB_Y" + strconv.Itoa(yLoc))

	hasDiffPrefix := strings.HasPrefix(iostandard, "DIFF_")
	isTmds33 := iostandard == "TMDS_33"
	isLvds25 := iostandard == "LVDS_25"
	isLvds := strings.HasPrefix(iostandard, "LVDS")
	onlyDiff := isTmds33 || isLvds
	isDiff := onlyDiff || hasDiffPrefix
	if hasDiffPrefix {
		iostandard = iostandard[5:]
	}
	isSstl := iostandard == "SSTL12" || iostandard == "SSTL135" || iostandard == "SSTL15"

	hclk := b.d.HclkForIob(pad.Bel)

	if onlyDiff {
		b.bankConfig(hclk).onlyDiff = true
	}
	if isTmds33 {
		b.bankConfig(hclk).tmds33 = true
	}
	if isLvds25 {
		b.bankConfig(hclk).lvds25 = true
	}

	if isOutput {
		// DRIVE
		defaultDrive := int64(12)
		if isRiob18 && iostandard == "LVCMOS12" {
			defaultDrive = 8
		}
		drive := defaultDrive
		if a, ok := pad.Attrs["DRIVE"]; ok {
			drive = a.AsInt64()
		}

		if (iostandard == "LVCMOS33" || iostandard == "LVTTL") && isRiob18 {
			log.Fatal("high performance banks (RIOB18) do not support IO standard %s\n", iostandard)
		}

		if iostandard == "SSTL135" {
			b.writeBit("SSTL135.DRIVE.I_FIXED")
		} else if isRiob18 {
			if iostandard == "LVCMOS18" || iostandard == "LVCMOS15" {
				b.writeBit("LVCMOS15_LVCMOS18.DRIVE.I12_I16_I2_I4_I6_I8")
			} else if iostandard == "LVCMOS12" {
				b.writeBit("LVCMOS12.DRIVE.I2_I4_I6_I8")
			} else if iostandard == "LVDS" {
				b.writeBit("LVDS.DRIVE.I_FIXED")
			} else if isSstl {
				b.writeBit(iostandard + ".DRIVE.I_FIXED")
			}
		} else { // IOB33
			if iostandard == "TMDS_33" && yLoc == 0 {
				b.writeBit("TMDS_33.DRIVE.I_FIXED")
				b.writeBit("TMDS_33.OUT")
			} else if iostandard == "LVDS_25" && yLoc == 0 {
				b.writeBit("LVDS_25.DRIVE.I_FIXED")
				b.writeBit("LVDS_25.OUT")
			} else if (iostandard == "LVCMOS15" && drive == 16) || iostandard == "SSTL15" {
				b.writeBit("LVCMOS15_SSTL15.DRIVE.I16_I_FIXED")
			} else if iostandard == "LVCMOS18" && (drive == 12 || drive == 8) {
				b.writeBit("LVCMOS18.DRIVE.I12_I8")
			} else if (iostandard == "LVCMOS33" || iostandard == "LVTTL") && drive == 16 {
				b.writeBit("LVCMOS33_LVTTL.DRIVE.I12_I16")
			} else if (iostandard == "LVCMOS33" || iostandard == "LVTTL") && (drive == 8 || drive == 12) {
				b.writeBit("LVCMOS33_LVTTL.DRIVE.I12_I8")
			} else if (iostandard == "LVCMOS33" || iostandard == "LVTTL") && drive == 4 {
				b.writeBit("LVCMOS33_LVTTL.DRIVE.I4")
			} else if drive == 8 && (iostandard == "LVCMOS12" || iostandard == "LVCMOS25") {
				b.writeBit("LVCMOS12_LVCMOS25.DRIVE.I8")
			} else if drive == 4 && (iostandard == "LVCMOS15" || iostandard == "LVCMOS18" || iostandard == "LVCMOS25") {
				b.writeBit("LVCMOS15_LVCMOS18_LVCMOS25.DRIVE.I4")
			} else if isLvcmos || iostandard == "LVTTL" {
				b.writeBit(iostandard + ".DRIVE.I" + strconv.FormatInt(drive, 10))
			}
		}

		// SSTL output used
		if isRiob18 && isSstl {
			b.writeBit(iostandard + ".IN_USE")
		}

		// SLEW
		if isRiob18 && slew == "SLOW" {
			if iostandard == "SSTL135" {
				b.writeBit("SSTL135.SLEW.SLOW")
			} else if iostandard == "SSTL15" {
				b.writeBit("SSTL15.SLEW.SLOW")
			} else {
				b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18.SLEW.SLOW")
			}
		} else if slew == "SLOW" {
			if iostandard != "LVDS_25" && iostandard != "TMDS_33" {
				b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18_LVCMOS25_LVCMOS33_LVTTL_SSTL135_SSTL15.SLEW.SLOW")
			}
		} else if isRiob18 {
			b.writeBit(iostandard + ".SLEW.FAST")
		} else if iostandard == "SSTL135" || iostandard == "SSTL15" {
			b.writeBit("SSTL135_SSTL15.SLEW.FAST")
		} else {
			b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18_LVCMOS25_LVCMOS33_LVTTL.SLEW.FAST")
		}
	}

	if isInput {
		if !isDiff {
			if iostandard == "LVCMOS33" || iostandard == "LVTTL" || iostandard == "LVCMOS25" {
				if !isRiob18 {
					b.writeBit("LVCMOS25_LVCMOS33_LVTTL.IN")
				} else {
					log.Fatal("high performance banks (RIOB18) do not support IO standard %s\n", iostandard)
				}
			}

			if isSstl {
				b.bankConfig(hclk).vref = true
				if !isRiob18 {
					b.writeBit("SSTL135_SSTL15.IN")
				} else {
					b.writeBit("SSTL12_SSTL135_SSTL15.IN")
				}

				if !isRiob18 && pad.HasAttr("IN_TERM") {
					b.writeBit("IN_TERM." + pad.StrAttr("IN_TERM", ""))
				}
			}

			if isLowVoltLvcmos {
				b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18.IN")
			}
		} else {
			if isRiob18 {
				// vivado generates these bits only for Y0 of a diff pair
				if yLoc == 0 {
					b.writeBit("LVDS_SSTL12_SSTL135_SSTL15.IN_DIFF")
					if iostandard == "LVDS" {
						b.writeBit("LVDS.IN_USE")
					}
				}
			} else {
				if iostandard == "TMDS_33" {
					b.writeBit("TMDS_33.IN_DIFF")
				} else {
					b.writeBit("LVDS_25_SSTL135_SSTL15.IN_DIFF")
				}
			}

			if pad.HasAttr("IN_TERM") {
				b.writeBit("IN_TERM." + pad.StrAttr("IN_TERM", ""))
			}
		}

		// IN_ONLY
		if !isOutput {
			if isRiob18 {
				// vivado also sets this bit for DIFF_SSTL
				if isDiff && yLoc == 0 {
					b.writeBit("LVDS.IN_ONLY")
				} else {
					b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18_SSTL12_SSTL135_SSTL15.IN_ONLY")
				}
			} else {
				b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18_LVCMOS25_LVCMOS33_LVDS_25_LVTTL_SSTL135_SSTL15_TMDS_33.IN_ONLY")
			}
		}
	}

	if !isRiob18 && (isLowVoltLvcmos || isSstl) {
		if iostandard == "SSTL12" {
			log.Fatal("SSTL12 is only available on high performance banks.\n")
		}
		b.writeBit("LVCMOS12_LVCMOS15_LVCMOS18_SSTL135_SSTL15.STEPDOWN")
		b.bankConfig(hclk).stepdown = true
		isStepdown = true
	}

	if isInput && isOutput && !isDiff && yLoc == 1 {
		if isRiob18 && strings.HasPrefix(iostandard, "SSTL") {
			b.writeBit("SSTL12_SSTL135_SSTL15.IN")
		}
	}

	b.writeBit("PULLTYPE." + pulltype)
	b.pop() // IOB_YN

	site := b.d.BelSite(pad.Bel)
	var inv xc7.BelId
	var haveInv bool
	if isRiob18 {
		inv, haveInv = b.d.BelByName(site + "/IOB18S/O_ININV")
	} else {
		inv, haveInv = b.d.BelByName(site + "/IOB33S/O_ININV")
	}

	if haveInv && b.d.BoundBelCell(inv) != nil {
		b.writeBit("OUT_DIFF")
	}

	if isStepdown && !isSing {
		b.writeBit("IOB_Y" + strconv.Itoa(ioY) + ".LVCMOS12_LVCMOS15_LVCMOS18_SSTL135_SSTL15.STEPDOWN")
	}

	b.pop() // tile
}

func isIologicCell(typeName string) bool {
	switch typeName {
	case "ILOGICE3_IFF", "OLOGICE2_OUTFF", "OLOGICE3_OUTFF",
		"OSERDESE2_OSERDESE2", "ISERDESE2_ISERDESE2",
		"IDELAYE2_IDELAYE2", "ODELAYE2_ODELAYE2":
		return true
	}
	return false
}

func (b *backend) writeIo() {
	for _, ci := range b.d.Cells.Values() {
		if ci.Type == "PAD" {
			b.writeIoConfig(ci)
			b.blank()
		} else if isIologicCell(ci.Type) {
			b.writeIolConfig(ci)
			b.blank()
		}
	}
	for _, hclk := range util.OrderedKeys(b.ioconfigByHclk) {
		cfg := b.ioconfigByHclk[hclk]
		b.push(b.d.TileName(hclk))
		b.writeBitIf("STEPDOWN", cfg.stepdown)
		b.writeBitIf("VREF.V_675_MV", cfg.vref)
		b.writeBitIf("ONLY_DIFF_IN_USE", cfg.onlyDiff)
		b.writeBitIf("TMDS_33_IN_USE", cfg.tmds33)
		b.writeBitIf("LVDS_25_IN_USE", cfg.lvds25)
		b.pop()
	}
}
