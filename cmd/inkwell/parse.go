package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mselway/inkwell"
)

var (
	parseFileType    string
	parseWithContent bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a manuscript and print the detected chapters as JSON",
	Long: `Parse a manuscript without saving it.

The file passes through extraction and the full chapter-detection
cascade; the resulting book structure is printed to stdout as JSON.
Useful for previewing how a document will segment before uploading it.

Examples:
  inkwell parse manuscript.pdf
  inkwell parse notes.txt --with-content
  inkwell parse export.bin --type docx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := newConfigManager(cfgFile)
		if err != nil {
			return err
		}

		cfg := cm.Get()
		parser := inkwell.NewParser(cfg)

		opts := parseOptionsFrom(cfg)
		if parseFileType != "" {
			opts = append(opts, inkwell.WithFileType(parseFileType))
		}

		book, err := parser.ParseBookFile(cmd.Context(), args[0], opts...)
		if err != nil {
			return err
		}

		if !parseWithContent {
			book.RawContent = ""
			for i := range book.Chapters {
				book.Chapters[i].Content = ""
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(book)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFileType, "type", "", "override file type detection (pdf, docx, txt)")
	parseCmd.Flags().BoolVar(&parseWithContent, "with-content", false, "include chapter bodies in the output")

	rootCmd.AddCommand(parseCmd)
}
