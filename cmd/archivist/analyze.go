package main

import (
	"encoding/json"
	"fmt"
	"os"

	"archivist/internal/analyzer"
	"archivist/internal/dbase"
	"archivist/internal/retention"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
)

var (
	dialectFlag string
	dsnFlag     string
	rulesFlag   string
	mockFlag    bool
	jsonFlag    bool
)

func init() {
	for _, cmd := range []*cobra.Command{analyzeCmd, agentCmd} {
		cmd.Flags().StringVar(&dialectFlag, "dialect", dbase.DialectSQLite, "database dialect (sqlite, mysql)")
		cmd.Flags().StringVar(&dsnFlag, "dsn", "", "database DSN (required)")
		cmd.MarkFlagRequired("dsn")
	}
	analyzeCmd.Flags().StringVar(&rulesFlag, "rules", "", "YAML file overriding the built-in RCC catalog")
	analyzeCmd.Flags().BoolVar(&mockFlag, "mock", false, "run the pipeline against the canned offline model")
	analyzeCmd.Flags().BoolVar(&jsonFlag, "json", false, "emit the raw JSON report")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the archival analysis pipeline against a database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		inspector, err := dbase.Open(dialectFlag, dsnFlag)
		if err != nil {
			return err
		}
		defer inspector.Close()

		catalog := retention.NewManager()
		if rulesFlag != "" {
			rules, err := retention.LoadRules(rulesFlag)
			if err != nil {
				return err
			}
			catalog = retention.NewManagerWithRules(rules)
		}

		var model llms.Model
		if mockFlag {
			model = analyzer.MockModel{}
		} else {
			m, err := buildModel()
			if err != nil {
				return err
			}
			model = m
		}

		report, err := analyzer.New(model, inspector, catalog).Analyze(cmd.Context())
		if err != nil {
			return err
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(report)
		return nil
	},
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	groupStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	tableStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	priorityNames = map[int]string{1: "HIGH", 2: "MEDIUM", 3: "LOW"}
)

func printReport(report *analyzer.Report) {
	fmt.Println(titleStyle.Render("DATABASE ARCHIVAL ANALYSIS"))
	fmt.Println(dimStyle.Render(fmt.Sprintf("run %s at %s", report.ID, report.Timestamp.Format("2006-01-02 15:04:05 MST"))))
	fmt.Printf("%d tables in %d groups\n", report.TotalTables, report.TotalGroups)

	for _, group := range report.GroupNames() {
		fmt.Println()
		fmt.Println(groupStyle.Render("GROUP: " + group))
		if def, ok := report.Groups[group]; ok && def.Description != "" {
			fmt.Println(dimStyle.Render(def.Description))
		}

		for _, table := range report.GroupTables(group) {
			ta := report.Tables[table]
			fmt.Printf("  %s  priority %d (%s)\n", tableStyle.Render(table), ta.Priority, priorityNames[ta.Priority])
			if ta.RCC != nil {
				line := "    RCC: " + ta.RCC.Code
				if !ta.RCC.Known {
					line += " (not in catalog)"
				}
				fmt.Println(line)
			}
			if ta.Retention != nil && len(ta.Retention.Columns) > 0 {
				fmt.Printf("    retention columns: %v\n", ta.Retention.Columns)
			}
		}
	}
}
