package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mcp-kids-nutrition/internal/explain"
	"mcp-kids-nutrition/internal/knowledge"
)

func newExplainCommand(a *app) *cobra.Command {
	var (
		question     string
		response     string
		responseFile string
		asJSON       bool
		previewLen   int
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain a nutrition answer without running the server",
		Example: `  kids-nutrition explain --question "What should a 5 year old eat for breakfast?" \
    --response "Offer 1 cup of oatmeal with berries and a glass of milk."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readResponse(cmd, response, responseFile)
			if err != nil {
				return err
			}

			e := explain.New(knowledge.Default(), explain.WithMaxFactors(a.cfg.Explain.MaxKeyFactors)).
				Explain(question, text)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(e)
			}

			r := explain.Renderer{PreviewLength: a.cfg.Explain.PreviewLength}
			if cmd.Flags().Changed("preview") {
				r.PreviewLength = previewLen
			}
			_, err = io.WriteString(out, r.Render(e))
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&question, "question", "q", "", "question that was asked")
	fl.StringVarP(&response, "response", "r", "", "answer to analyze")
	fl.StringVar(&responseFile, "response-file", "", "read the answer from a file (- for stdin)")
	fl.BoolVar(&asJSON, "json", false, "print the explanation as JSON instead of a report")
	fl.IntVar(&previewLen, "preview", explain.DefaultPreviewLength, "report preview length in characters")
	_ = cmd.MarkFlagRequired("question")
	cmd.MarkFlagsMutuallyExclusive("response", "response-file")
	cmd.MarkFlagsOneRequired("response", "response-file")
	return cmd
}

func readResponse(cmd *cobra.Command, response, path string) (string, error) {
	switch path {
	case "":
		return response, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read response from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read response file: %w", err)
		}
		return string(data), nil
	}
}
