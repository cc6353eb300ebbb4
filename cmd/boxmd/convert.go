package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boxmd/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <note.boxnote>",
	Short: "Convert a single Box Notes file",
	Long: `Convert decodes one .boxnote file and writes the result next to it,
or under the directory given with --output-dir. The output file takes
the note's name with a .md or .txt extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := convertConfig(cmd)
		if err != nil {
			return err
		}

		notePath := args[0]
		outDir, _ := cmd.Flags().GetString("output-dir")
		if outDir == "" {
			outDir = filepath.Dir(notePath)
		}
		stem := strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
		outBase := filepath.Join(outDir, stem)

		if convert.ConvertNote(notePath, outBase, cfg, os.Stdout) == convert.StatusFailed {
			return fmt.Errorf("conversion failed")
		}
		return nil
	},
}

func init() {
	addConvertFlags(convertCmd)
	convertCmd.Flags().StringP("output-dir", "o", "", "directory for output files (default: beside the note)")

	rootCmd.AddCommand(convertCmd)
}
