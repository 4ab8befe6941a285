package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tomgalvin.uk/qlprint/internal/media"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the media sizes qlprint knows about",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := media.All()
		rows := make([][]string, len(entries))
		for i, e := range entries {
			g := e.Geometry
			rows[i] = []string{
				mediaName(e.ReportedWidth, e.ReportedLength),
				g.String(),
				fmt.Sprintf("%dx%d", g.Dots.Width, g.Dots.Length),
				fmt.Sprintf("%dx%d", g.Printable.Width, g.Printable.Length),
				strconv.Itoa(g.RightMargin),
				strconv.Itoa(g.FeedMargin),
			}
		}
		fmt.Print(renderTable([]string{"Name", "Media", "Dots", "Printable", "Right", "Feed"}, rows))
		return nil
	},
}

// The name accepted by --media for a reported size
func mediaName(width, length uint8) string {
	if length == 0 {
		return strconv.Itoa(int(width))
	}
	return fmt.Sprintf("%dx%d", width, length)
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
