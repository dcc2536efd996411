package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raytris/internal/shape"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes [kind]",
	Short: "List the piece catalog",
	Long: `Shows every registered piece with its cells and the number of probes it carries.

With a kind (case-insensitive), shows that piece cell by cell with the
faces each cell probes.

Examples:
  raytris shapes
  raytris shapes t`,
	Args: cobra.MaximumNArgs(1),
	Run:  runShapes,
}

func runShapes(_ *cobra.Command, args []string) {
	if err := writeShapes(os.Stdout, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Known shapes: %s\n", kindList())
		os.Exit(1)
	}
}

func writeShapes(w io.Writer, args []string) error {
	if len(args) == 1 {
		kind, err := shape.Parse(args[0])
		if err != nil {
			return err
		}
		d, err := shape.Lookup(kind)
		if err != nil {
			return err
		}
		writeShape(w, d)
		return nil
	}

	defs := shape.List()
	if len(defs) == 0 {
		fmt.Fprintln(w, "No shapes registered.")
		return nil
	}

	fmt.Fprintln(w, "Available shapes:")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-4s  %-6s  %s\n", "Kind", "Probes", "Cells")
	fmt.Fprintf(w, "  %-4s  %-6s  %s\n", "----", "------", "-----")

	for _, d := range defs {
		cells := make([]string, len(d.Cells))
		for i, c := range d.Cells {
			cells[i] = fmt.Sprintf("(%g,%g)", c.Offset.X(), c.Offset.Y())
		}
		fmt.Fprintf(w, "  %-4s  %-6d  %s\n", d.Kind, d.ProbeCount(), strings.Join(cells, " "))
	}
	return nil
}

// writeShape prints one shape cell by cell.
func writeShape(w io.Writer, d shape.Definition) {
	fmt.Fprintf(w, "Shape %s, %d probes\n\n", d.Kind, d.ProbeCount())
	fmt.Fprintf(w, "  %-12s  %s\n", "Cell", "Probes")
	fmt.Fprintf(w, "  %-12s  %s\n", "----", "------")
	for _, c := range d.Cells {
		faces := make([]string, len(c.Probes))
		for i, dir := range c.Probes {
			faces[i] = dir.String()
		}
		fmt.Fprintf(w, "  %-12s  %s\n", fmt.Sprintf("(%g,%g)", c.Offset.X(), c.Offset.Y()), strings.Join(faces, " "))
	}
}

func kindList() string {
	kinds := shape.Kinds()
	tags := make([]string, len(kinds))
	for i, k := range kinds {
		tags[i] = k.String()
	}
	return strings.Join(tags, ", ")
}
