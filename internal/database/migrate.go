package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recall/schemas"
)

// Migrate creates the schedule tables when they do not exist yet.
// Every migration uses IF NOT EXISTS, so it is safe to run on each start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect := "mysql"
	if db.DriverName() == sqliteDriverName {
		dialect = "sqlite"
	}

	statements, err := migrationStatements(schemas.Migrations, dialect)
	if err != nil {
		return err
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("db.ExecContext(migrate) > %w", err)
		}
	}
	return nil
}

// migrationStatements reads the migrations of dialect in file name order and splits them into statements.
func migrationStatements(migrations fs.FS, dialect string) ([]string, error) {
	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var statements []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		content, err := fs.ReadFile(migrations, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("fs.ReadFile(%s) > %w", entry.Name(), err)
		}
		statements = append(statements, splitStatements(string(content))...)
	}
	return statements, nil
}

func splitStatements(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var statements []string
	for _, statement := range strings.Split(strings.Join(lines, "\n"), ";") {
		if statement = strings.TrimSpace(statement); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
