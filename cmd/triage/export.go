package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brandpulse/triage/internal/model"
	"github.com/brandpulse/triage/internal/vocab"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the vocabulary",
		Long: `Write the current vocabulary to stdout or a file as json, yaml, or
the generated Go mirror source.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			v := eng.coordinator.Export()

			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(exportDoc(v), "", "  ")
			case "yaml":
				data, err = yaml.Marshal(exportDoc(v))
			case "go":
				data = []byte(vocab.Render(v))
			default:
				return fmt.Errorf("unknown format %q (want json, yaml, or go)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to encode vocabulary: %w", err)
			}

			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Println(successStyle.Render("Exported vocabulary to " + output))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml, go)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// exportDoc renders the vocabulary as category → word → weight maps, the
// same shape the import command accepts.
func exportDoc(v *vocab.Vocabulary) map[string]map[string]float64 {
	doc := make(map[string]map[string]float64, len(model.Categories))
	for _, cat := range model.Categories {
		words := make(map[string]float64)
		for _, t := range v.Terms(cat) {
			words[t.Word] = t.Weight
		}
		doc[string(cat)] = words
	}
	return doc
}
