package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfctx/internal/document"
	"github.com/pdiddy/pdfctx/internal/render"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>...",
	Short: "Check PDFs and report which pages carry a text layer",
	Long: `Inspect validates each PDF, prints its page count and size, and lists
every page as "has text" or "image only". Image-only pages are answered
from the rendered image alone. Nothing is sent to the API.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := render.Detect(); err != nil {
		fmt.Fprintf(out, "Renderer: unavailable (%v)\n\n", err)
	} else {
		fmt.Fprint(out, "Renderer: pdftoppm\n\n")
	}

	for _, path := range args {
		info, err := document.Probe(path)
		if err != nil {
			return err
		}
		texts, err := document.LayerReader{}.ReadText(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Document ID: %s\n", info.FileID)
		fmt.Fprintf(out, "Pages: %d\n", info.PageCount)
		fmt.Fprintf(out, "Size: %d bytes\n", info.Size)
		if len(texts) != info.PageCount {
			fmt.Fprintf(out, "WARNING: text layer reports %d pages\n", len(texts))
		}
		for i, text := range texts {
			status := "image only"
			if strings.TrimSpace(text) != "" {
				status = "has text"
			}
			fmt.Fprintf(out, "  Page %d: %s\n", i+1, status)
		}
		fmt.Fprintln(out)
	}
	return nil
}
