package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boxmd/internal/convert"
	"github.com/pdiddy/boxmd/internal/detect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <note.boxnote>",
	Short: "Show a note's detected encoding and structure",
	Long: `Inspect parses a .boxnote file without writing any output and reports
the detected encoding, the decoded block count, and the note metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		kind, err := detect.Format(data)
		if err != nil {
			return err
		}
		fmt.Printf("format:  %s\n", kind)

		doc, err := convert.Decode(data, kind)
		if err != nil {
			return err
		}
		fmt.Printf("blocks:  %d\n", doc.BlockCount())
		if doc.Meta.Revision != 0 {
			fmt.Printf("revision: %d\n", doc.Meta.Revision)
		}
		if doc.Meta.LastEdit != "" {
			fmt.Printf("last edit: %s\n", doc.Meta.LastEdit)
		}
		for _, author := range doc.Meta.Authors {
			fmt.Printf("author:  %s\n", author)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
