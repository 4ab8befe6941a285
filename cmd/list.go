package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tomgalvin.uk/qlprint/internal/usb"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached printers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printers, err := usb.List(logger)
		if err != nil {
			return err
		}
		if len(printers) == 0 {
			fmt.Println("No supported printers found")
			return nil
		}

		rows := make([][]string, len(printers))
		for i, p := range printers {
			rows[i] = []string{
				p.Model,
				p.Serial,
				fmt.Sprintf("%03d", p.Bus),
				fmt.Sprintf("%03d", p.Address),
				fmt.Sprintf("%s:%s", p.Vendor, p.Product),
			}
		}
		fmt.Printf("Found %d printer(s):\n\n", len(printers))
		fmt.Print(renderTable([]string{"Model", "Serial", "Bus", "Address", "ID"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
