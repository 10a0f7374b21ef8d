package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	historyJSON bool
	historyMax  int
)

const defaultHistoryMax = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent panel navigations",
	Long:  `Show the panel navigations the shell has recorded, newest first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVar(&historyMax, "max", defaultHistoryMax, "maximum entries to show")
}

func runHistory(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	entries, err := app.HistoryUC.Execute(app.Ctx(), historyMax)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("no panel navigations recorded yet")
		return nil
	}

	timeStyle := lipgloss.NewStyle().Faint(true)
	for _, entry := range entries {
		fmt.Printf("%s  %s\n", timeStyle.Render(entry.At.Local().Format("2006-01-02 15:04")), entry.URL)
	}
	return nil
}
