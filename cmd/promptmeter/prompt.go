package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davidbz/promptmeter/internal/domain"
)

// Prompt-specific flag values.
var (
	promptModel          string
	promptPrediction     string
	promptPredictionFile string
)

// promptCmd runs a single predictive prompt.
var promptCmd = &cobra.Command{
	Use:   "prompt [text]",
	Short: "Run one predictive prompt and print the result as JSON",
	Long: `Send a prompt with a predicted output and print the response text,
run time in milliseconds and USD cost as JSON:

  promptmeter prompt --model gpt-4o --prediction "func foo() {}" "Rename foo to bar"
  promptmeter prompt --model gpt-4o-mini --prediction-file main.go "Add doc comments"`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().StringVarP(&promptModel, "model", "m", "gpt-4o", "model to send the prompt to")
	promptCmd.Flags().StringVarP(&promptPrediction, "prediction", "p", "", "predicted output text")
	promptCmd.Flags().StringVar(&promptPredictionFile, "prediction-file", "", "read the predicted output from a file")
	promptCmd.MarkFlagsMutuallyExclusive("prediction", "prediction-file")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	prediction := promptPrediction
	if promptPredictionFile != "" {
		data, err := os.ReadFile(promptPredictionFile)
		if err != nil {
			return fmt.Errorf("read prediction file: %w", err)
		}
		prediction = string(data)
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}

	return container.Invoke(func(service *domain.PredictiveService) error {
		response, err := service.PredictivePrompt(cmd.Context(), args[0], prediction, promptModel)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	})
}
