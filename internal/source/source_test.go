package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/teststat/internal/record"
)

func quietOptions() Options {
	logger, _ := test.NewNullLogger()
	return Options{Log: logrus.NewEntry(logger)}
}

func TestCSVRecords(t *testing.T) {
	path := writeInput(t, "input.csv", "id,case_id,build_id,team_id,execution_time,result,phase_id\n"+
		"1,10,100,7,2021-01-01 10:00:00,1,3\n"+
		" 2 , 11 , 100 , 7 , 12s , 2 , 3 \n"+
		"3,12,101,8,,9,1\n"+
		"\n\n")

	recs, err := NewCSV(path, quietOptions()).Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []record.Execution{
		{ID: 1, CaseID: 10, BuildID: 100, TeamID: 7, Result: record.Pass, PhaseID: 3},
		{ID: 2, CaseID: 11, BuildID: 100, TeamID: 7, Result: record.Fail, PhaseID: 3},
		{ID: 3, CaseID: 12, BuildID: 101, TeamID: 8, Result: 9, PhaseID: 1},
	}, recs)
}

func TestCSVSkipsMalformedRows(t *testing.T) {
	path := writeInput(t, "input.csv", "header\n"+
		"1,10,100,7,t,1,3\n"+
		"2,abc,100,7,t,1,3\n"+
		"3,10,100\n"+
		"4,10,100,7,t,-1,3\n"+
		"5,11,100,7,t,2,3\n")

	src := NewCSV(path, quietOptions())
	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint32(1), recs[0].ID)
	assert.Equal(t, uint32(5), recs[1].ID)
	assert.Equal(t, 3, src.Skipped())
}

func TestCSVCustomDelimiter(t *testing.T) {
	path := writeInput(t, "input.tsv", "h\n1;10;100;7;t;1;3\n")
	opts := quietOptions()
	opts.Delimiter = ';'

	recs, err := NewCSV(path, opts).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint32(3), recs[0].PhaseID)
}

func TestCSVHeaderOnly(t *testing.T) {
	path := writeInput(t, "input.csv", "id,case_id,build_id,team_id,execution_time,result,phase_id\n")
	recs, err := NewCSV(path, quietOptions()).Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCSVMissingFile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	src := NewCSV(filepath.Join(t.TempDir(), "missing.csv"), Options{Log: logrus.NewEntry(logger)})

	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCSVUnreadableInput(t *testing.T) {
	logger, hook := test.NewNullLogger()
	src := NewCSV(t.TempDir(), Options{Log: logrus.NewEntry(logger)})

	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "Input not readable")
}

func TestCSVStrayQuoteCostsOneRow(t *testing.T) {
	path := writeInput(t, "input.csv", "header\n"+
		"1,10,100,7,t,1,3\n"+
		"2,11,100,7,\"2021-01-01 10:00,2,3\n"+
		"3,12,100,7,t,2,3\n"+
		"4,13,100,7,\"quoted, time\",1,3\n")

	src := NewCSV(path, quietOptions())
	recs, err := src.Records(context.Background())
	require.NoError(t, err)
	ids := make([]uint32, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []uint32{1, 3, 4}, ids)
	assert.Equal(t, 1, src.Skipped())
}

func TestCSVCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSV("unused", quietOptions()).decode(ctx, strings.NewReader("h\n1,1,1,1,t,1,1\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE executions (
		id INTEGER, case_id INTEGER, build_id INTEGER, team_id INTEGER,
		execution_time TEXT, result INTEGER, phase_id INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO executions VALUES
		(1, 10, 100, 7, '1s', 1, 3),
		(2, 10, 100, 7, '2s', 2, 3),
		(3, 11, 101, 8, '3s', 0, 1)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	recs, err := Open(path, quietOptions()).Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []record.Execution{
		{ID: 1, CaseID: 10, BuildID: 100, TeamID: 7, Result: record.Pass, PhaseID: 3},
		{ID: 2, CaseID: 10, BuildID: 100, TeamID: 7, Result: record.Fail, PhaseID: 3},
		{ID: 3, CaseID: 11, BuildID: 101, TeamID: 8, Result: 0, PhaseID: 1},
	}, recs)
}

func TestSQLiteMissingDatabase(t *testing.T) {
	recs, err := Open(SQLitePrefix+filepath.Join(t.TempDir(), "none.bin"), quietOptions()).Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLiteMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(path, quietOptions()).Records(context.Background())
	require.Error(t, err)
}

func TestSQLiteUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	notADB := filepath.Join(dir, "notes.db")
	require.NoError(t, os.WriteFile(notADB, []byte("these are not the rows you are looking for\n"), 0o644))
	dbDir := filepath.Join(dir, "runs.db")
	require.NoError(t, os.Mkdir(dbDir, 0o755))

	for _, path := range []string{notADB, dbDir} {
		logger, hook := test.NewNullLogger()
		recs, err := Open(path, Options{Log: logrus.NewEntry(logger)}).Records(context.Background())
		require.NoError(t, err, path)
		assert.Empty(t, recs, path)
		require.NotNil(t, hook.LastEntry(), path)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level, path)
	}
}

func TestSQLiteInvalidTable(t *testing.T) {
	opts := quietOptions()
	opts.Table = `x"; DROP TABLE executions; --`
	_, err := NewSQLite("whatever.db", opts).Records(context.Background())
	require.ErrorContains(t, err, "invalid table name")
}

func TestOpenSelectsSource(t *testing.T) {
	cases := map[string]bool{
		"results.csv":       false,
		"results.txt":       false,
		"results.db":        true,
		"results.SQLITE3":   true,
		"sqlite://runs.bin": true,
	}
	for location, isSQLite := range cases {
		_, got := Open(location, quietOptions()).(*SQLite)
		assert.Equal(t, isSQLite, got, location)
	}
}

func writeInput(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
