package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage the classification vocabulary",
		Long: `Add, update, delete, move, search, and inspect the weighted keywords
that drive feedback classification. Every mutation is persisted
atomically and picked up by running classifiers immediately.`,
	}

	cmd.AddCommand(listKeywordsCmd())
	cmd.AddCommand(addKeywordCmd())
	cmd.AddCommand(updateKeywordCmd())
	cmd.AddCommand(deleteKeywordCmd())
	cmd.AddCommand(moveKeywordCmd())
	cmd.AddCommand(searchKeywordsCmd())
	cmd.AddCommand(statsKeywordsCmd())
	cmd.AddCommand(importKeywordsCmd())
	cmd.AddCommand(resyncKeywordsCmd())
	cmd.AddCommand(historyKeywordsCmd())

	return cmd
}

func listKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keywords grouped by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			grouped := eng.coordinator.All()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Word"),
				headerStyle.Render("Weight"))

			for _, cat := range model.Categories {
				for _, t := range grouped[cat] {
					fmt.Fprintf(w, "%s\t%s\t%.2f\n", cat, t.Word, t.Weight)
				}
			}
			return nil
		},
	}
}

func addKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <word> <weight>",
		Short: "Add a keyword to a category",
		Long: `Add a weighted keyword. Re-adding a word to its current category
overwrites the weight; a word held by a different category must be
deleted or moved first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, weight, err := parseCategoryWeight(args[0], args[2])
			if err != nil {
				return err
			}

			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			term, err := eng.coordinator.Add(cmd.Context(), cat, args[1], weight)
			if err != nil {
				return common.NewUserError("failed to add keyword", err)
			}

			fmt.Println(successStyle.Render(
				fmt.Sprintf("Added %q to %s with weight %.2f", term.Word, term.Category, term.Weight)))
			warnIfDegraded(eng)
			return nil
		},
	}
}

func updateKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <category> <word> <weight>",
		Short: "Update the weight of an existing keyword",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, weight, err := parseCategoryWeight(args[0], args[2])
			if err != nil {
				return err
			}

			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			term, err := eng.coordinator.Update(cmd.Context(), cat, args[1], weight)
			if err != nil {
				return common.NewUserError("failed to update keyword", err)
			}

			fmt.Println(successStyle.Render(
				fmt.Sprintf("Updated %q in %s to weight %.2f", term.Word, term.Category, term.Weight)))
			warnIfDegraded(eng)
			return nil
		},
	}
}

func deleteKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category> <word>",
		Short: "Delete a keyword from a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ok := model.ParseCategory(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", common.ErrInvalidCategory, args[0])
			}

			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.coordinator.Delete(cmd.Context(), cat, args[1]); err != nil {
				return common.NewUserError("failed to delete keyword", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Deleted %q from %s", args[1], cat)))
			warnIfDegraded(eng)
			return nil
		},
	}
}

func moveKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <from-category> <to-category> <word> <weight>",
		Short: "Move a keyword between categories",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, ok := model.ParseCategory(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", common.ErrInvalidCategory, args[0])
			}
			to, weight, err := parseCategoryWeight(args[1], args[3])
			if err != nil {
				return err
			}

			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			term, err := eng.coordinator.Move(cmd.Context(), from, to, args[2], weight)
			if err != nil {
				return common.NewUserError("failed to move keyword", err)
			}

			fmt.Println(successStyle.Render(
				fmt.Sprintf("Moved %q from %s to %s with weight %.2f", term.Word, from, to, term.Weight)))
			warnIfDegraded(eng)
			return nil
		},
	}
}

func searchKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search keywords by substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			results := eng.coordinator.Search(args[0])
			if len(results) == 0 {
				fmt.Println(infoStyle.Render("No keywords match."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			for _, t := range results {
				fmt.Fprintf(w, "%s\t%s\t%.2f\n", t.Category, t.Word, t.Weight)
			}
			return nil
		},
	}
}

func statsKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vocabulary statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			stats := eng.coordinator.Stats()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Count"),
				headerStyle.Render("Min"),
				headerStyle.Render("Max"),
				headerStyle.Render("Mean"))
			for _, cat := range model.Categories {
				cs := stats.PerCategory[cat]
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\n",
					cat, cs.Count, cs.MinWeight, cs.MaxWeight, cs.MeanWeight)
			}
			w.Flush()

			fmt.Printf("\nTotal: %d\n", stats.Total)
			if !stats.UpdatedAt.IsZero() {
				fmt.Println(subtleStyle.Render("Last updated: " + stats.UpdatedAt.Format("2006-01-02 15:04:05")))
			}
			if stats.Maintainer != "" {
				fmt.Println(subtleStyle.Render("Maintainer: " + stats.Maintainer))
			}
			if stats.Degraded {
				fmt.Println(warningStyle.Render("Mirror out of sync; run 'triage keywords resync'."))
			}
			return nil
		},
	}
}

func importKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import keywords from a JSON file",
		Long: `Import keywords from a JSON file mapping categories to word/weight
objects, e.g. {"CRITICAL": {"假貨": 2.0}}. The whole file commits as a
single atomic mutation; any invalid entry rejects the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := readImportFile(args[0])
			if err != nil {
				return err
			}
			if len(terms) == 0 {
				fmt.Println(infoStyle.Render("Nothing to import."))
				return nil
			}

			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			bar := progressbar.Default(int64(len(terms)), "validating")
			for i, t := range terms {
				if strings.TrimSpace(t.Word) == "" {
					return fmt.Errorf("entry %d: %w", i, common.ErrInvalidWord)
				}
				if !model.ValidWeight(t.Weight) {
					return fmt.Errorf("entry %d (%q): %w", i, t.Word, common.ErrInvalidWeight)
				}
				_ = bar.Add(1)
			}

			count, err := eng.coordinator.Import(cmd.Context(), terms)
			if err != nil {
				return common.NewUserError("import failed", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Imported %d keywords", count)))
			warnIfDegraded(eng)
			return nil
		},
	}
}

func resyncKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Regenerate the mirror and cache from the durable store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.coordinator.Resync(cmd.Context()); err != nil {
				return common.NewUserError("resync failed", err)
			}

			fmt.Println(successStyle.Render("Vocabulary resynced"))
			warnIfDegraded(eng)
			return nil
		},
	}
}

func historyKeywordsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent vocabulary mutations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.Close()

			if eng.journal == nil {
				fmt.Println(infoStyle.Render("Mutation journal is disabled."))
				return nil
			}

			entries, err := eng.journal.History(cmd.Context(), limit)
			if err != nil {
				return common.NewUserError("failed to read history", err)
			}
			if len(entries) == 0 {
				fmt.Println(infoStyle.Render("No mutations recorded yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			for _, e := range entries {
				weight := "-"
				if e.Weight != nil {
					weight = fmt.Sprintf("%.2f", *e.Weight)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.Op, e.Category, e.Word, weight)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}

// readImportFile parses a category → {word: weight} JSON document.
func readImportFile(path string) ([]model.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var grouped map[string]map[string]float64
	if err := json.Unmarshal(data, &grouped); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	var terms []model.Term
	for _, cat := range model.Categories {
		words, ok := grouped[string(cat)]
		if !ok {
			continue
		}
		for word, weight := range words {
			terms = append(terms, model.Term{Category: cat, Word: word, Weight: weight})
		}
	}

	for name := range grouped {
		if _, ok := model.ParseCategory(name); !ok {
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidCategory, name)
		}
	}

	return terms, nil
}

func parseCategoryWeight(catArg, weightArg string) (model.CategoryTag, float64, error) {
	cat, ok := model.ParseCategory(catArg)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", common.ErrInvalidCategory, catArg)
	}
	weight, err := strconv.ParseFloat(weightArg, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", common.ErrInvalidWeight, weightArg)
	}
	return cat, weight, nil
}

func warnIfDegraded(eng *engine) {
	if eng.coordinator.Degraded() {
		fmt.Println(warningStyle.Render("Warning: mirror regeneration failed; durable store is correct. Run 'triage keywords resync'."))
	}
}
