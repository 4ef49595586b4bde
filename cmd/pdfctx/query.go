package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfctx/internal/query"
	"github.com/pdiddy/pdfctx/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query <pdf>... --question TEXT",
	Short: "Ask a question about one or more PDFs",
	Long: `Query loads each PDF, renders its pages, and sends the pages together with
the question to the configured model in a single request. With several
files the model sees all of them and cites the file name with each page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringP("question", "q", "", "question to ask (required)")
	queryCmd.Flags().Bool("json", false, "print the result as JSON")
	queryCmd.Flags().Bool("yaml", false, "print the result as YAML")
	_ = queryCmd.MarkFlagRequired("question")
	queryCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	engine, err := query.New(queryConfig(),
		query.WithLogger(logger),
		query.WithOutput(cmd.ErrOrStderr()),
	)
	if err != nil {
		return err
	}

	var result types.QueryResult
	if len(args) == 1 {
		result, err = engine.Query(cmd.Context(), args[0], question)
	} else {
		result, err = engine.QueryMultiple(cmd.Context(), args, question)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case asYAML:
		return yaml.NewEncoder(out).Encode(result)
	default:
		printResult(out, result)
		return nil
	}
}

func printResult(w io.Writer, r types.QueryResult) {
	fmt.Fprintf(w, "Answer: %s\n\n", r.Answer)
	fmt.Fprintf(w, "Model: %s\n", r.Model)
	fmt.Fprintf(w, "Tokens used: %d (prompt %d, completion %d)\n",
		r.Usage.TotalTokens, r.Usage.PromptTokens, r.Usage.CompletionTokens)
	fmt.Fprintf(w, "Finish reason: %s\n", r.FinishReason)
	if r.IsTruncated() {
		fmt.Fprintln(w, "WARNING: Response was truncated due to token limits")
	}
}
