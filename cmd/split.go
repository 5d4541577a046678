package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stattler/dataloom/internal/split"
)

var splitNoSave bool

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Partition rows into stratified train and test snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}
		y, err := t.Floats(cfg.TargetColumn)
		if err != nil {
			return err
		}
		part, err := split.Stratified(y, cfg.TestFraction, cfg.StratifyBins, cfg.Seed)
		if err != nil {
			return err
		}
		fmt.Printf("Train: %d rows, Test: %d rows (seed %d)\n",
			len(part.Train), len(part.Test), cfg.Seed)
		if splitNoSave {
			return nil
		}

		train, err := t.Subset(part.Train)
		if err != nil {
			return err
		}
		trainPath, err := saveSnapshot(train, "train_split", "split")
		if err != nil {
			return err
		}
		test, err := t.Subset(part.Test)
		if err != nil {
			return err
		}
		testPath, err := saveSnapshot(test, "test_split", "split")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote partitions to %s and %s\n", trainPath, testPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().BoolVar(&splitNoSave, "no-save", false, "skip writing the partition snapshots")
}
