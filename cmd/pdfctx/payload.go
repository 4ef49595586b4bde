package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfctx/internal/builder"
	"github.com/pdiddy/pdfctx/internal/query"
)

// unsent stands in for a provider so payload needs no API key.
type unsent struct{}

func (unsent) Complete(context.Context, *builder.Request) (*query.Completion, error) {
	return nil, errors.New("payload command does not send requests")
}

var payloadCmd = &cobra.Command{
	Use:   "payload <pdf>... --question TEXT",
	Short: "Print the request that query would send",
	Long: `Payload builds the chat-completion request for the given PDFs and question
and prints it without contacting the API. Image data is shortened unless
--full is set. No API key is needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPayload,
}

func init() {
	payloadCmd.Flags().StringP("question", "q", "", "question to ask (required)")
	payloadCmd.Flags().Bool("full", false, "print complete image data as compact JSON")
	_ = payloadCmd.MarkFlagRequired("question")

	rootCmd.AddCommand(payloadCmd)
}

func runPayload(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")
	full, _ := cmd.Flags().GetBool("full")
	cfg := queryConfig()

	e, err := query.New(cfg, query.WithCompleter(unsent{}), query.WithLogger(logger))
	if err != nil {
		return err
	}
	req, err := e.Payload(args, question)
	if err != nil {
		return err
	}

	if full {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(req)
	}
	return query.PrintPayload(cmd.OutOrStdout(), req)
}
