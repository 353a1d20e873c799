package migrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("migrations/001_init.sql"))
	assert.Equal(t, "002", versionOf("002_add_index_on_age.sql"))
}

func TestMigrateFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_second.sql", "CREATE TABLE b (id INT)")
	writeMigration(t, dir, "001_first.sql", "CREATE TABLE a (id INT)")
	writeMigration(t, dir, "notes.txt", "ignored")

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// 001 is new
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE a`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs("001").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	// 002 was applied earlier
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, NewMigrator(mock).MigrateFromDirectory(context.Background(), dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateFromDirectoryMissingDir(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = NewMigrator(mock).MigrateFromDirectory(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
