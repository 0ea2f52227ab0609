// Package agent wires the chat model and the schema tools into a ReAct
// agent that answers free-form questions about a database.
package agent

import (
	"context"
	"fmt"

	"archivist/internal/dbase"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
)

const analystInstructions = `You are an expert database analyst. Given a list of table names and their schemas, classify each table into one of the following groups: archive, config, dataretention, invoice, keylog, mediadestruction, metrics, scorecard, system versioning.

For each table, identify possible archival columns such as createddate, inserteddate, isactive, validfrom, loaddate, validto, or similar columns that indicate archival or retention information.

Return the results in JSON format with table name, group, and archival columns.`

type Agent struct {
	executor *agents.Executor
}

// New builds a ReAct agent over the database tools.
func New(model llms.Model, inspector *dbase.Inspector) (*Agent, error) {
	toolset := []tools.Tool{
		ListTablesTool{Inspector: inspector},
		SchemaTool{Inspector: inspector},
		RelationshipsTool{Inspector: inspector},
		QueryTool{Inspector: inspector},
	}

	executor, err := agents.Initialize(
		model,
		toolset,
		agents.ZeroShotReactDescription,
		agents.WithMaxIterations(10),
	)
	if err != nil {
		return nil, fmt.Errorf("init agent: %w", err)
	}
	return &Agent{executor: executor}, nil
}

// Run executes the agent loop for one question and returns the final answer.
func (a *Agent) Run(ctx context.Context, question string) (string, error) {
	input := analystInstructions + "\n\nQuestion: " + question
	return chains.Run(ctx, a.executor, input)
}
