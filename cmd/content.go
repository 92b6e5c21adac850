package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EmmanuelR15/portfolio/internal/content"
)

var projectsCategory string

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect portfolio content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a portfolio file (defaults to content.file or the embedded one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, source, err := loadPortfolio(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d projects, %d skills)\n", source, len(p.Projects), len(p.Skills))
		return nil
	},
}

var contentProjectsCmd = &cobra.Command{
	Use:   "projects [file]",
	Short: "List projects, optionally filtered by category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := loadPortfolio(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, pr := range content.FilterProjects(p.Projects, projectsCategory) {
			fmt.Fprintf(out, "%3d  %-10s  %s  [%s]\n", pr.ID, pr.Category, pr.Title, strings.Join(pr.Tech, ", "))
		}
		return nil
	},
}

func init() {
	contentProjectsCmd.Flags().StringVarP(&projectsCategory, "category", "c", content.All, "category to filter by")
	contentCmd.AddCommand(contentValidateCmd, contentProjectsCmd)
	rootCmd.AddCommand(contentCmd)
}

func loadPortfolio(args []string) (*content.Portfolio, string, error) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if cfg, _, err := setup(); err == nil {
		path = cfg.Content.File
	} else {
		return nil, "", err
	}

	if path == "" {
		p, err := content.Default()
		return p, "embedded portfolio", err
	}
	p, err := content.Load(path)
	return p, path, err
}
