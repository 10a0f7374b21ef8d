package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/benchview/benchview/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) {
	title := lipgloss.NewStyle().Bold(true)
	label := lipgloss.NewStyle().Faint(true).Width(12)

	fmt.Println(title.Render("benchview"))
	fmt.Printf("%s %s\n", label.Render("version"), buildInfo.Version)
	fmt.Printf("%s %s\n", label.Render("commit"), buildInfo.Commit)
	fmt.Printf("%s %s\n", label.Render("built"), buildInfo.BuildDate)
	fmt.Printf("%s %s\n", label.Render("go"), buildInfo.GoVersion)
	fmt.Printf("%s %s\n", label.Render("source"), build.RepoURL())
}
