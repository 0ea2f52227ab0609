package analyzer

import "github.com/tmc/langchaingo/prompts"

const categorizationTemplate = `You are a database analyst. Create groups of related tables that should be purged together.

GROUPING RULES:
1. Tables with direct foreign key relationships MUST be in the same group
2. Tables sharing common business objects (e.g. customer_id in multiple tables) should be in the same group
3. Look for naming patterns indicating relationships (e.g. order_* tables)
4. Keep the number of groups minimal (ideally 3-5) by combining related business concepts
5. Each table MUST belong to exactly one group
6. Name groups after the primary business entity or process they represent

Table definitions:
{{.table_schemas}}

Relationship data:
{{.relationships_data}}

IMPORTANT: Return ONLY valid JSON in this exact format with no additional text:

{
  "groups": {
    "GROUP_NAME": {
      "description": "Brief description of what this group represents",
      "primary_entity": "The main business entity or process this group revolves around"
    }
  },
  "analysis": {
    "table_name": {
      "group": "GROUP_NAME",
      "reasoning": "explanation focusing on relationships and why tables must be processed together"
    }
  }
}`

const rccClassificationTemplate = `You are a data retention expert. Classify this database table into the most appropriate Retention Class Code (RCC) based on its schema and content.

Table schema:
{{.table_schema}}

Table content hint: {{.table_content}}

Available RCCs:
{{.available_rccs}}

CLASSIFICATION RULES:
1. Analyze the table name, column names, and data types to determine the business purpose
2. Match the table's purpose to the most appropriate RCC category
3. Consider data sensitivity and retention requirements
4. Look for key indicators like financial data, audit logs, customer data, HR records

Return ONLY valid JSON in this exact format:

{
  "assigned_rcc": "RCC_CODE",
  "reasoning": "why this RCC was chosen based on table characteristics"
}`

const retentionColumnsTemplate = `You are a data retention expert tasked with identifying the most appropriate columns to use as retention lookup keys for a database table. Use the provided RCC guidance and table schema to make your decision.

Table details:
- Table schema: {{.table_schema}}
- RCC kind: {{.rcc_kind}}
- Retention duration: {{.retention_years}} years
- RCC hints: {{.rcc_hints}}
- Hint-matched columns: {{.candidate_columns}}
- Context: {{.retention_context}}

Instructions:
1. Look at column names, data types, and naming conventions that indicate timestamps, activity flags, or event markers; prioritize columns that align with the RCC hints.
2. For creation-based retention focus on creation timestamps, for active-plus retention focus on activity flags, for event-based retention focus on event timestamps.
3. Explain why the selected columns fit the retention kind; if no suitable columns exist, say so.

Return ONLY valid JSON in this exact format:

{
  "retention_lookup_columns": ["created_at", "is_active"],
  "reasoning": "why these columns are appropriate"
}`

const priorityTemplate = `You are determining purging priorities for tables in the {{.group_name}} group based on foreign key relationships.

Tables and relationships:
{{.tables_with_relationships}}

Foreign key details:
{{.foreign_key_details}}

PRIORITY ASSIGNMENT RULES:
1. PRIORITY 1 (HIGH - purge FIRST): child tables that have foreign keys but are NOT referenced by other tables; staging and log detail tables.
2. PRIORITY 2 (MEDIUM - purge SECOND): bridge tables that have foreign keys AND are referenced by other tables; independent tables with no relationships.
3. PRIORITY 3 (LOW - purge LAST): parent tables referenced by other tables that have NO foreign keys of their own; master and lookup tables.

Tables with foreign keys are purged before the tables they reference, so referential integrity holds at every step.

Return ONLY valid JSON:

{
  "priority_analysis": {
    "table_name": {
      "intra_group_priority": 1,
      "reasoning": "explanation of the priority assignment"
    }
  }
}`

var (
	categorizationPrompt = prompts.NewPromptTemplate(
		categorizationTemplate,
		[]string{"table_schemas", "relationships_data"},
	)
	rccClassificationPrompt = prompts.NewPromptTemplate(
		rccClassificationTemplate,
		[]string{"table_schema", "table_content", "available_rccs"},
	)
	retentionColumnsPrompt = prompts.NewPromptTemplate(
		retentionColumnsTemplate,
		[]string{"table_schema", "rcc_kind", "retention_years", "rcc_hints", "candidate_columns", "retention_context"},
	)
	priorityPrompt = prompts.NewPromptTemplate(
		priorityTemplate,
		[]string{"group_name", "tables_with_relationships", "foreign_key_details"},
	)
)
