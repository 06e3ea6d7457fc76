package main

import (
	"github.com/spf13/cobra"
)

func newBuildCmd(flags *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build [manifest.yaml]",
		Short: "Build a PDF from a YAML manifest",
		Long: `Build a PDF from a YAML manifest describing pages, fonts, images,
metadata and document-level scripts. Relative paths inside the manifest are
resolved against the manifest's directory.

Example manifest:
  version: "1.7"
  info:
    title: Hello
  pages:
    - media_box: [0, 0, 612, 792]
      fonts:
        F1: {base_font: Helvetica}
      contents:
        - "BT /F1 24 Tf 72 700 Td (Hello) Tj ET"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := LoadManifest(args[0])
			if err != nil {
				return err
			}
			return writeDocument(cmd, flags, doc)
		},
	}
}
