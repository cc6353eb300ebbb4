package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boxmd/internal/convert"
	"github.com/pdiddy/boxmd/internal/manifest"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Convert every Box Notes file in a directory",
	Long: `Batch converts all .boxnote files found in a directory. Failures are
reported per file and never abort the run; the exit status is non-zero
when any note failed.

With --manifest, a conversion manifest is kept in the input directory
and notes whose content has not changed since their last conversion
are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := convertConfig(cmd)
		if err != nil {
			return err
		}

		dir := args[0]
		outDir, _ := cmd.Flags().GetString("output-dir")
		recursive, _ := cmd.Flags().GetBool("recursive")
		if cmd.Flags().Changed("manifest") {
			cfg.Manifest.Enabled, _ = cmd.Flags().GetBool("manifest")
		}

		var m convert.Manifest
		if cfg.Manifest.Enabled {
			store, err := manifest.Open(dir)
			if err != nil {
				return fmt.Errorf("opening manifest: %w", err)
			}
			defer store.Close()
			m = store
		}

		result, err := convert.ConvertBatch(dir, outDir, recursive, m, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d note(s) failed", result.Failed)
		}
		return nil
	},
}

func init() {
	addConvertFlags(batchCmd)
	batchCmd.Flags().StringP("output-dir", "o", "", "directory for output files (default: beside each note)")
	batchCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	batchCmd.Flags().Bool("manifest", false, "keep a manifest and skip unchanged notes")

	rootCmd.AddCommand(batchCmd)
}
