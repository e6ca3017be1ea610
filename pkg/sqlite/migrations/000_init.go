package migrations

import (
	"context"
	"database/sql"
)

var InitMigrationKey = 0

func init() {
	registerMigration(InitMigrationKey, initMigration)
}

var initMigration = &Migration{
	Id: InitMigrationKey,
	Up: func(ctx context.Context, tx *sql.Tx) error {
		sql := `
		CREATE TABLE IF NOT EXISTS Projects (
			project_id INTEGER PRIMARY KEY AUTOINCREMENT,
			archive_id TEXT NOT NULL,
			location TEXT,
			doc_type TEXT,
			path TEXT,
			folderName TEXT,
			oversized BOOLEAN,
			total_pages INTEGER,
			total_pages_with_refs INTEGER,
			date_created TEXT,
			data_dir TEXT,
			index_path TEXT
		);
		CREATE TABLE IF NOT EXISTS Rolls (
			roll_id INTEGER PRIMARY KEY AUTOINCREMENT,
			film_number TEXT,
			film_type TEXT,
			capacity INTEGER,
			pages_used INTEGER,
			pages_remaining INTEGER,
			status TEXT,
			project_id INTEGER,
			creation_date TEXT,
			source_temp_roll_id INTEGER NULL,
			created_temp_roll_id INTEGER NULL,
			film_number_source TEXT DEFAULT 'new',
			FOREIGN KEY (project_id) REFERENCES Projects(project_id)
		);
		CREATE TABLE IF NOT EXISTS TempRolls (
			temp_roll_id INTEGER PRIMARY KEY AUTOINCREMENT,
			film_type TEXT,
			capacity INTEGER,
			usable_capacity INTEGER,
			status TEXT,
			creation_date TEXT,
			source_roll_id INTEGER,
			used_by_roll_id INTEGER NULL,
			FOREIGN KEY (source_roll_id) REFERENCES Rolls(roll_id),
			FOREIGN KEY (used_by_roll_id) REFERENCES Rolls(roll_id)
		);
		CREATE TABLE IF NOT EXISTS Documents (
			document_id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_name TEXT,
			com_id TEXT,
			roll_id INTEGER,
			page_range_start INTEGER,
			page_range_end INTEGER,
			is_oversized BOOLEAN,
			filepath TEXT,
			blip TEXT,
			blipend TEXT,
			blip_type TEXT DEFAULT '16mm',
			FOREIGN KEY (roll_id) REFERENCES Rolls(roll_id)
		);
		CREATE INDEX IF NOT EXISTS idx_documents_blip_type ON Documents (blip_type);
		`
		_, err := tx.ExecContext(ctx, sql)
		return err
	},
	Down: func(ctx context.Context, tx *sql.Tx) error {
		sql := `
		DROP INDEX IF EXISTS idx_documents_blip_type;
		DROP TABLE IF EXISTS Documents;
		DROP TABLE IF EXISTS TempRolls;
		DROP TABLE IF EXISTS Rolls;
		DROP TABLE IF EXISTS Projects;
		`
		_, err := tx.ExecContext(ctx, sql)
		return err
	},
}
