package main

import (
	"fmt"
	"strings"

	"archivist/internal/agent"
	"archivist/internal/dbase"

	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent [question]",
	Short: "Ask the ReAct database agent a free-form question",
	Long: `Runs a ReAct agent equipped with schema tools (list_tables,
table_schema, table_relationships, run_query) against the connected
database and prints its final answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inspector, err := dbase.Open(dialectFlag, dsnFlag)
		if err != nil {
			return err
		}
		defer inspector.Close()

		model, err := buildModel()
		if err != nil {
			return err
		}
		ag, err := agent.New(model, inspector)
		if err != nil {
			return err
		}

		answer, err := ag.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}
