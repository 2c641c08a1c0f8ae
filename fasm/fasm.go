// Package fasm converts a placed-and-routed 7-series design into a textual
// FASM feature stream. Emission is single-threaded and deterministic: two
// runs over the same design produce byte-identical output.
package fasm

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/openxc7/fasmout/xc7"
)

// Write emits the FASM rendition of the design to w. The encoder order is
// fixed; the routing pass populates the per-tile pip lists consumed by the
// BRAM and clocking passes.
func Write(d *xc7.Design, w io.Writer) error {
	out := bufio.NewWriter(w)
	b := newBackend(d, out)

	b.writeLogic()
	b.assertBalanced("logic")
	b.writeCfg()
	b.assertBalanced("cfg")
	b.writeIo()
	b.assertBalanced("io")
	b.writeRouting()
	b.assertBalanced("routing")
	b.writeBram()
	b.assertBalanced("bram")
	b.writeClocking()
	b.assertBalanced("clocking")
	b.writeIp()
	b.assertBalanced("ip")

	return errors.Wrap(out.Flush(), "writing FASM stream")
}

// WriteFile emits the FASM rendition of the design to the named file.
func WriteFile(d *xc7.Design, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", path)
	}
	if err := Write(d, f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing '%s'", path)
}
