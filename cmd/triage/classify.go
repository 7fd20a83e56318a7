package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/brandpulse/triage/internal/priority"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	var (
		polarityFlag string
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify a piece of feedback and score its priority",
		Long: `Score free text against the vocabulary and print the winning
category, matched terms, confidence, and priority rank. Reads from
stdin when no text argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			polarity, ok := model.ParsePolarity(polarityFlag)
			if !ok {
				return fmt.Errorf("%w: %q", common.ErrInvalidPolarity, polarityFlag)
			}

			text, err := readText(args)
			if err != nil {
				return err
			}

			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			result := eng.classifier.Classify(text)
			rank, err := priority.Score(result.Category, polarity)
			if err != nil {
				return err
			}

			if jsonOut {
				out := struct {
					model.ClassificationResult
					Priority int `json:"priority"`
				}{result, rank}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Printf("Category:   %s\n", result.Category)
			fmt.Printf("Score:      %.2f\n", result.Score)
			fmt.Printf("Confidence: %.2f\n", result.Confidence)
			fmt.Printf("Priority:   %d\n", rank)
			if len(result.Matched) > 0 {
				words := make([]string, 0, len(result.Matched))
				for _, m := range result.Matched {
					words = append(words, fmt.Sprintf("%s(%.2f)", m.Word, m.Weight))
				}
				fmt.Println(subtleStyle.Render("Matched:    " + strings.Join(words, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&polarityFlag, "polarity", "neutral", "sentiment polarity (positive, negative, neutral, suggestion)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit JSON")
	return cmd
}

// readText returns the argument text, or stdin when none was given.
func readText(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
