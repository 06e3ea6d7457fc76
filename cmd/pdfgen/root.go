package main

import (
	"fmt"
	"io"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/wudi/pdfwriter/document"
	"github.com/wudi/pdfwriter/observability"
	"github.com/wudi/pdfwriter/writer"
)

type outputFlags struct {
	out      string
	compress bool
	level    int
	filter   string
	uniqueID bool
	version  string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	flags := &outputFlags{}
	root := &cobra.Command{
		Use:   "pdfgen",
		Short: "Generate PDF files",
		Long: `pdfgen writes byte-exact PDF files.

Examples:
  pdfgen build report.yaml -o report.pdf
  pdfgen markdown notes.md -o notes.pdf --compress`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.out, "out", "o", "out.pdf", "Output file, - for stdout")
	pf.BoolVar(&flags.compress, "compress", false, "Flate-encode every stream")
	pf.IntVar(&flags.level, "level", 6, "Deflate level used with --compress (1-9)")
	pf.StringVar(&flags.filter, "filter", "", "Stream filter: none, flate, hex or a85")
	pf.BoolVar(&flags.uniqueID, "unique-id", false, "Randomise the second file identifier")
	pf.StringVar(&flags.version, "version", "", "Header version, e.g. 1.7")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log every writer phase")

	root.AddCommand(newBuildCmd(flags), newMarkdownCmd(flags))
	return root
}

func (f *outputFlags) config() (writer.Config, error) {
	cfg := writer.Config{Version: writer.PDFVersion(f.version), UniqueID: f.uniqueID}
	switch f.filter {
	case "", "none":
	case "flate":
		cfg.ContentFilter = writer.FilterFlate
	case "hex":
		cfg.ContentFilter = writer.FilterASCIIHex
	case "a85":
		cfg.ContentFilter = writer.FilterASCII85
	default:
		return writer.Config{}, fmt.Errorf("unknown filter %q", f.filter)
	}
	if f.compress {
		if f.level < 1 || f.level > 9 {
			return writer.Config{}, fmt.Errorf("level must be between 1 and 9, got %d", f.level)
		}
		cfg.Compression = f.level
	}
	return cfg, nil
}

func (f *outputFlags) logger(w io.Writer) observability.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	if f.verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return observability.NewKitLogger(logger)
}

// writeDocument assembles doc and writes the file named by --out. The file
// is only created once the whole output has been encoded.
func writeDocument(cmd *cobra.Command, flags *outputFlags, doc *document.Document) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}
	table, err := document.Assemble(doc)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	w := (&writer.WriterBuilder{}).WithLogger(flags.logger(cmd.ErrOrStderr())).Build()
	data, err := w.Encode(cmd.Context(), table, cfg)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if flags.out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(flags.out, data, 0o644)
}
