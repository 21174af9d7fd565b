package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/store"
	"github.com/Mugiii7/CustomHA/internal/view"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard for the seed entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		entities := store.NewDemo().List()
		if out == "" || out == "-" {
			return renderDocument(cmd.OutOrStdout(), entities)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderDocument(f, entities)
	},
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "Write the document to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func renderDocument(w io.Writer, entities []domain.Entity) error {
	_, err := fmt.Fprint(w, view.Render(entities).HTML())
	return err
}
