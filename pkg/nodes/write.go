package nodes

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FormatCoord renders a coordinate with the fewest digits that read back to
// the same value, never in exponent form.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Progress is called with the number of lines written so far. It may be nil.
type Progress func(written int)

// WriteNodes writes one "Node <name>" line per node.
func WriteNodes(w io.Writer, nodes []*Node, progress Progress) error {
	bw := bufio.NewWriter(w)
	for i, n := range nodes {
		if _, err := fmt.Fprintf(bw, "Node %s\n", n.Name); err != nil {
			return err
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return bw.Flush()
}

// WritePositions writes one "<name> <x> <y>" line per node.
func WritePositions(w io.Writer, nodes []*Node, progress Progress) error {
	bw := bufio.NewWriter(w)
	for i, n := range nodes {
		if _, err := fmt.Fprintf(bw, "%s %s %s\n", n.Name, FormatCoord(n.X), FormatCoord(n.Y)); err != nil {
			return err
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return bw.Flush()
}

// WriteFile truncates (or creates) filename and hands it to write.
func WriteFile(filename string, write func(io.Writer) error) error {
	wc, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating output file %s: %v", filename, err)
	}
	if err = write(wc); err != nil {
		wc.Close()
		return fmt.Errorf("error writing %s: %v", filename, err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("error closing file %s: %v", filename, err)
	}
	return nil
}
