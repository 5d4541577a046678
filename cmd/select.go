package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	selIDs     []int
	selColumns []string
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Print rows by id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		if len(selIDs) == 0 {
			return fmt.Errorf("--ids is required")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}
		rows, err := t.SelectByID(cfg.IDColumn, selIDs)
		if err != nil {
			return err
		}
		if len(selColumns) > 0 {
			cols := selColumns
			if !contains(cols, cfg.IDColumn) {
				cols = append([]string{cfg.IDColumn}, cols...)
			}
			rows, err = rows.SelectColumns(cols)
			if err != nil {
				return err
			}
		}
		records := rows.DataFrame().Records()
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(records[0])
		for _, rec := range records[1:] {
			table.Append(rec)
		}
		table.Render()
		return nil
	},
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().IntSliceVar(&selIDs, "ids", nil, "row ids to select (comma-separated)")
	selectCmd.Flags().StringSliceVar(&selColumns, "columns", nil, "columns to print (default all)")
}
