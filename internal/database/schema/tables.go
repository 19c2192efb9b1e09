// Package schema holds the Record Store DDL. Statements are idempotent and
// applied on every start by database.InitializeDatabase.
package schema

// TableDefinitions is applied in order. Foreign keys are left to the
// application so tables can be created in any order.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS workspaces (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		address TEXT,
		timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
		contact_email VARCHAR(255),
		slug VARCHAR(255),
		status VARCHAR(20) NOT NULL DEFAULT 'provisional',
		onboarding_step INTEGER,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		CONSTRAINT workspaces_status_check CHECK (status IN ('provisional', 'active', 'inactive'))
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		user_id VARCHAR(255) UNIQUE NOT NULL,
		workspace_id UUID,
		display_name VARCHAR(255),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY,
		workspace_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		duration INTEGER NOT NULL DEFAULT 60,
		price NUMERIC(10, 2),
		location TEXT,
		slug VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_services_workspace_id ON services (workspace_id)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id UUID PRIMARY KEY,
		workspace_id UUID NOT NULL,
		item_name VARCHAR(255) NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		low_stock_threshold INTEGER NOT NULL DEFAULT 0,
		sku VARCHAR(64) NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_workspace_id ON inventory (workspace_id)`,
}
