package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	started_at      DATETIME NOT NULL,
	source          TEXT NOT NULL DEFAULT '',
	steps           TEXT NOT NULL DEFAULT '[]',
	total_processed INTEGER NOT NULL DEFAULT 0,
	total_remaining INTEGER NOT NULL DEFAULT 0,
	steps_executed  INTEGER NOT NULL DEFAULT 0,
	actions         TEXT NOT NULL DEFAULT '[]',
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
