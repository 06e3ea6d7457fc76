package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wudi/pdfwriter/layout"
)

func newMarkdownCmd(flags *outputFlags) *cobra.Command {
	var fontSize float64
	cmd := &cobra.Command{
		Use:   "markdown [file.md]",
		Short: "Lay out a Markdown file as a PDF",
		Long: `Lay out a Markdown file with the standard fonts. Reads standard input
when the file is - or omitted. The first level one heading becomes the title.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				src, err = io.ReadAll(cmd.InOrStdin())
			} else {
				src, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read markdown: %w", err)
			}
			doc, err := layout.Markdown(src, layout.WithDefaultFontSize(fontSize))
			if err != nil {
				return err
			}
			doc.Info.Producer = "pdfgen"
			return writeDocument(cmd, flags, doc)
		},
	}
	cmd.Flags().Float64Var(&fontSize, "font-size", 12, "Body font size in points")
	return cmd
}
