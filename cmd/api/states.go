package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Print the seed entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		return writeEntities(cmd.OutOrStdout(), store.NewDemo().List(), format)
	},
}

func init() {
	statesCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
	rootCmd.AddCommand(statesCmd)
}

func writeEntities(w io.Writer, entities []domain.Entity, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entities)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entities); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
