package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfctx/internal/chat"
	"github.com/pdiddy/pdfctx/internal/query"
)

var chatCmd = &cobra.Command{
	Use:   "chat <pdf>...",
	Short: "Hold an interactive conversation about PDFs",
	Long: `Chat loads the PDFs once and reads questions from standard input. The
first question carries the full document context; follow-ups reuse the
conversation history. Type quit, exit or q to leave. Requires an
OpenAI-compatible provider.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := queryConfig()
	if cfg.AI.APIKey == "" {
		return query.ErrMissingAPIKey
	}

	model, err := chat.NewModel(cmd.Context(), cfg.AI)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	b := query.NewBuilder(cfg.Prompt)
	for _, path := range args {
		doc, err := query.NewDocument(cfg.Render, path)
		if err != nil {
			return err
		}
		n, err := doc.PageCount()
		if err != nil {
			return err
		}
		b.Add(doc)
		fmt.Fprintf(out, "Loaded: %s (%d pages)\n", doc.FileID(), n)
	}
	fmt.Fprint(out, "Type 'quit' to exit.\n\n")

	session := chat.NewSession(model, b, logger)
	return chat.Run(cmd.Context(), session, cmd.InOrStdin(), out)
}
