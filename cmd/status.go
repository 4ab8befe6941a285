package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tomgalvin.uk/qlprint/internal/model"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the printer's status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openPrinter(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		status, err := s.printer.Status(cmd.Context())
		if err != nil {
			return err
		}
		r := model.FromStatus(status)

		if statusJSON {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return fmt.Errorf("Couldn't encode status:\n%w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printField("Model", r.Model)
		printField("Serial", s.conn.Info.Serial)
		printField("Status", r.Type)
		if r.Media.Description != "" {
			printField("Media", r.Media.Description)
		} else {
			printField("Media", fmt.Sprintf("%s %dx%dmm", r.Media.Kind, r.Media.Width, r.Media.Length))
		}
		if len(r.Errors) == 0 {
			printField("Errors", successStyle.Render("none"))
		} else {
			printField("Errors", errorStyle.Render(strings.Join(r.Errors, ", ")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the status as JSON")
}
