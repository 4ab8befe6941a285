package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tomgalvin.uk/qlprint/internal/media"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Show the geometry of the loaded media",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openPrinter(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		g, err := s.printer.CurrentLabel(cmd.Context())
		if err != nil {
			return err
		}
		printGeometry(g)
		return nil
	},
}

func printGeometry(g media.Geometry) {
	printField("Media", g.String())
	printField("Dots", fmt.Sprintf("%d x %d", g.Dots.Width, g.Dots.Length))
	printField("Printable", fmt.Sprintf("%d x %d", g.Printable.Width, g.Printable.Length))
	printField("Right margin", g.RightMargin)
	printField("Feed margin", g.FeedMargin)
}

func init() {
	rootCmd.AddCommand(labelCmd)
}
