package validation_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"db-diff/internal/dbtest"
	"db-diff/internal/dialect"
	"db-diff/internal/schema"
	"db-diff/internal/validation"
	"db-diff/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	missing []string
	results []*validation.TableResult
	stats   validation.Statistics
	err     error
}

func (s *memSink) AddMissingTable(table string) error {
	if s.err != nil {
		return s.err
	}
	s.missing = append(s.missing, table)
	s.stats.AddMissingTable()
	return nil
}

func (s *memSink) AddValidationDetails(r *validation.TableResult) error {
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, r)
	s.stats.AddTableResult(r)
	return nil
}

func (s *memSink) Statistics() validation.Statistics {
	return s.stats
}

// cancellingExec cancels the run as soon as the first validation starts.
type cancellingExec struct {
	cancel context.CancelFunc
}

func (e cancellingExec) Run(ctx context.Context, tasks ...validation.Task) error {
	e.cancel()
	return validation.Inline{}.Run(ctx, tasks...)
}

func newStore(t *testing.T, name string, db *sql.DB) *validation.Store {
	t.Helper()

	d := &dialect.SQLiteDialect{}
	snapshot, err := schema.Introspect(context.Background(), db, d, "main")
	require.NoError(t, err)
	return &validation.Store{
		Name:     name,
		DB:       db,
		Dialect:  d,
		Schema:   "main",
		Snapshot: snapshot,
	}
}

const usersDDL = `CREATE TABLE users (
	id INT NOT NULL PRIMARY KEY,
	name VARCHAR(50) NOT NULL,
	active BOOLEAN NOT NULL
)`

const usersRows = `INSERT INTO users (id, name, active) VALUES (1, 'Ann', TRUE), (2, 'Bo', FALSE)`

func TestEngine_UsersEndToEnd(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	sink := &memSink{}

	engine := validation.NewEngine(source, target, validation.NewPool(validation.PoolSize), sink, logger.Discard())
	stats, err := engine.Validate(context.Background())
	require.NoError(t, err)

	require.Len(t, sink.results, 1)
	result := sink.results[0]
	assert.Equal(t, "users", result.Table)
	assert.Equal(t, validation.Passed, result.Outcome())
	assert.Equal(t, 0, result.FailedCount())

	var kinds []validation.Kind
	for _, v := range engine.Validators(source.Snapshot.Tables[0]) {
		kinds = append(kinds, v.Kind)
	}
	assert.Equal(t, []validation.Kind{
		validation.Numeric,
		validation.VarcharLength,
		validation.VarcharValue,
		validation.Boolean,
		validation.Record,
	}, kinds)
	require.Equal(t, 5, result.Count())

	assert.Equal(t, "users.id - NumericValidator", result.Results[0].Description)
	assert.Equal(t, "users - RecordValidator", result.Results[4].Description)
	assert.Equal(t, "(1, 2, 1.5, 3)\n\n", result.Results[0].Source.ResultSet)
	assert.Equal(t, "(1, Ann, true)\n(2, Bo, false)\n\n", result.Results[4].Source.ResultSet)

	assert.Equal(t, validation.Statistics{Tables: 1, Validations: 5}, stats)
	assert.Equal(t, 5, stats.SuccessfulValidations())
}

func TestEngine_DetectsChangedValue(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL,
		`INSERT INTO users (id, name, active) VALUES (1, 'Ann', TRUE), (2, 'Bob', FALSE)`))
	sink := &memSink{}

	stats, err := validation.NewEngine(source, target, validation.Inline{}, sink, logger.Discard()).Validate(context.Background())
	require.NoError(t, err)

	result := sink.results[0]
	assert.Equal(t, validation.Failed, result.Outcome())
	assert.Equal(t, 3, result.FailedCount()) // length, value hash, record
	assert.Equal(t, validation.Passed, result.Results[0].Outcome)
	assert.Equal(t, validation.Statistics{Tables: 1, FailedTables: 1, Validations: 5, FailedValidations: 3}, stats)
}

func TestEngine_MissingTable(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows, `CREATE TABLE extra (id INT NOT NULL PRIMARY KEY)`))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	sink := &memSink{}

	var seen []string
	engine := validation.NewEngine(source, target, validation.Inline{}, sink, logger.Discard())
	engine.OnTable = func(table string) { seen = append(seen, table) }

	stats, err := engine.Validate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"extra"}, sink.missing)
	require.Len(t, sink.results, 1)
	assert.Equal(t, "users", sink.results[0].Table)
	assert.Equal(t, []string{"extra", "users"}, seen)
	assert.Equal(t, validation.Statistics{Tables: 2, FailedTables: 1, Validations: 5}, stats)
}

func TestEngine_SinkErrorAborts(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	sink := &memSink{err: errors.New("disk full")}

	_, err := validation.NewEngine(source, target, validation.Inline{}, sink, logger.Discard()).Validate(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestEngine_CancelledContext(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := validation.NewEngine(source, target, validation.Inline{}, &memSink{}, logger.Discard()).Validate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_CancelledMidTableIsNotReported(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &memSink{}

	stats, err := validation.NewEngine(source, target, cancellingExec{cancel: cancel}, sink, logger.Discard()).Validate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.results)
	assert.Equal(t, validation.Statistics{}, stats)
}

func TestEngine_ReturnsSinkStatistics(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	sink := &memSink{stats: validation.Statistics{Tables: 3, FailedTables: 1, Validations: 7, FailedValidations: 2}}

	stats, err := validation.NewEngine(source, target, validation.Inline{}, sink, logger.Discard()).Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sink.Statistics(), stats)
	assert.Equal(t, validation.Statistics{Tables: 4, FailedTables: 1, Validations: 12, FailedValidations: 2}, stats)
}

func TestEngine_StatisticsConsistency(t *testing.T) {
	people := dbtest.FakePeople(42, 80)
	sourceDB := dbtest.Open(t, "source", dbtest.PeopleDDL, usersDDL, usersRows)
	targetDB := dbtest.Open(t, "target", dbtest.PeopleDDL, usersDDL, usersRows)
	dbtest.InsertPeople(t, sourceDB, people)
	dbtest.InsertPeople(t, targetDB, people)
	dbtest.Exec(t, targetDB, "UPDATE people SET email = NULL WHERE id <= 3")

	source := newStore(t, "source", sourceDB)
	target := newStore(t, "target", targetDB)
	sink := &memSink{}

	stats, err := validation.NewEngine(source, target, validation.NewPool(validation.PoolSize), sink, logger.Discard()).Validate(context.Background())
	require.NoError(t, err)

	total, failed := 0, 0
	for _, r := range sink.results {
		total += r.Count()
		failed += r.FailedCount()
	}
	assert.Equal(t, total, stats.Validations)
	assert.Equal(t, failed, stats.FailedValidations)
	assert.LessOrEqual(t, stats.FailedValidations, stats.Validations)
	assert.Equal(t, 2, stats.Tables)
	assert.Equal(t, 1, stats.FailedTables)
	assert.Positive(t, stats.FailedValidations)
}

func TestValidator_NullCountComplementarity(t *testing.T) {
	people := dbtest.FakePeople(7, 40)
	db := dbtest.Open(t, "people", dbtest.PeopleDDL)
	dbtest.InsertPeople(t, db, people)
	dbtest.Exec(t, db, "UPDATE people SET email = NULL WHERE id % 3 = 0")

	store := newStore(t, "source", db)
	table := store.Snapshot.Tables[0]
	email, ok := table.Column("email")
	require.True(t, ok)

	isNull := validation.Validator{Kind: validation.NullCount, Table: table, Column: email, NullCheck: validation.IsNull}
	isNotNull := validation.Validator{Kind: validation.NullCount, Table: table, Column: email, NullCheck: validation.IsNotNull}

	nulls := isNull.Validate(context.Background(), store, store, validation.Inline{})
	notNulls := isNotNull.Validate(context.Background(), store, store, validation.Inline{})

	assert.Equal(t, "13", nulls.Source.ResultSet)
	assert.Equal(t, "27", notNulls.Source.ResultSet)
	assert.Equal(t, "people.email - NullValueCountValidator (IS_NULL)", nulls.Description)
	assert.Equal(t, validation.Passed, nulls.Outcome)
}

func TestValidator_ExecutionFailedSideFails(t *testing.T) {
	source := newStore(t, "source", dbtest.Open(t, "source", usersDDL, usersRows))
	target := newStore(t, "target", dbtest.Open(t, "target", usersDDL, usersRows))
	table := source.Snapshot.Tables[0]
	id, _ := table.Column("id")

	// Both sides fail with the same message.
	source.Schema, target.Schema = "nope", "nope"
	v := validation.Validator{Kind: validation.Numeric, Table: table, Column: id}
	r := v.Validate(context.Background(), source, target, validation.Inline{})

	assert.Equal(t, validation.Failed, r.Outcome)
	assert.Equal(t, "No SQL statement executed - see the error details", r.Source.Statement)
	assert.Contains(t, r.Source.ResultSet, "No result-set - exception has been caught\n")
	assert.Equal(t, r.Source, r.Target)
}

func TestStore_WithQueryTimeout(t *testing.T) {
	store := &validation.Store{Timeout: 2 * time.Second}
	ctx, cancel := store.WithQueryTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)

	ctx, cancel = (&validation.Store{}).WithQueryTimeout(context.Background())
	defer cancel()
	deadline, ok = ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(validation.DefaultQueryTimeout), deadline, time.Second)
}

func TestSideResult_EmptyErrorStillFails(t *testing.T) {
	side := validation.ExecutionFailed("")
	assert.True(t, side.Failed())
	assert.Equal(t, "No result-set - exception has been caught\n", side.Rendered().ResultSet)
	assert.False(t, validation.Ok(validation.ValidationQuery{Statement: "SELECT 1", ResultSet: "1"}).Failed())
}

func TestValidator_RecordWithoutPrimaryKey(t *testing.T) {
	db := dbtest.Open(t, "log", `CREATE TABLE events (payload BLOB, note TEXT)`)
	store := newStore(t, "source", db)
	table := store.Snapshot.Tables[0]

	validators := validation.Validators(table)
	record := validators[len(validators)-1]
	require.Equal(t, validation.Record, record.Kind)

	r := record.Validate(context.Background(), store, store, validation.Inline{})
	assert.Equal(t, validation.Passed, r.Outcome)
	assert.Equal(t, validation.ValidationQuery{Statement: "N/A", ResultSet: "N/A"}, r.Source)
	assert.Equal(t, r.Source, r.Target)
}

func TestValidator_RecordHashesLargeObjects(t *testing.T) {
	table := &schema.Table{
		Name: "files",
		Columns: []*schema.Column{
			schema.NewColumn("id", "INTEGER", false),
			schema.NewColumn("body", "BLOB", true),
		},
		PrimaryKey: []string{"id"},
	}
	v := validation.Validator{Kind: validation.Record, Table: table}

	assert.Equal(t,
		"SELECT id, UPPER(MD5(body)) FROM main.files ORDER BY id ASC LIMIT 50",
		v.Statement(&dialect.SQLiteDialect{}, "main.files"))
	assert.Equal(t,
		"SELECT * FROM (SELECT id, RAWTOHEX(DBMS_CRYPTO.HASH(body, 2)) FROM SHOP.FILES ORDER BY id ASC) WHERE ROWNUM <= 50",
		v.Statement(&dialect.OracleDialect{}, "SHOP.FILES"))
}

func TestValidator_DateTimeOnNonTemporalColumnPanics(t *testing.T) {
	table := &schema.Table{Name: "t", Columns: []*schema.Column{schema.NewColumn("c", "INTEGER", true)}}
	v := validation.Validator{Kind: validation.DateTime, Table: table, Column: table.Columns[0]}

	assert.Panics(t, func() {
		v.Validate(context.Background(), &validation.Store{Dialect: &dialect.SQLiteDialect{}}, &validation.Store{Dialect: &dialect.SQLiteDialect{}}, validation.Inline{})
	})
}

func TestValidator_Statements(t *testing.T) {
	table := &schema.Table{
		Name: "people",
		Columns: []*schema.Column{
			schema.NewColumn("name", "VARCHAR(10)", true),
			schema.NewColumn("born", "DATE", true),
			schema.NewColumn("active", "BOOLEAN", false),
		},
	}
	pg := &dialect.PostgresDialect{}

	cases := []struct {
		v    validation.Validator
		want string
	}{
		{
			validation.Validator{Kind: validation.VarcharLength, Table: table, Column: table.Columns[0]},
			"SELECT LENGTH(name), COUNT(LENGTH(name)) FROM public.people GROUP BY LENGTH(name) ORDER BY LENGTH(name) ASC",
		},
		{
			validation.Validator{Kind: validation.VarcharValue, Table: table, Column: table.Columns[0]},
			"SELECT UPPER(MD5(name)) FROM public.people WHERE name IS NOT NULL ORDER BY UPPER(MD5(name)) ASC LIMIT 50",
		},
		{
			validation.Validator{Kind: validation.DateTime, Table: table, Column: table.Columns[1]},
			"SELECT TO_CHAR(born, 'YYYY-MM-DD') FROM public.people WHERE born IS NOT NULL ORDER BY TO_CHAR(born, 'YYYY-MM-DD') ASC LIMIT 50",
		},
		{
			validation.Validator{Kind: validation.Boolean, Table: table, Column: table.Columns[2]},
			"SELECT active, COUNT(*) FROM public.people GROUP BY active ORDER BY active ASC",
		},
		{
			validation.Validator{Kind: validation.NullCount, Table: table, Column: table.Columns[0], NullCheck: validation.IsNotNull},
			"SELECT COUNT(*) FROM public.people WHERE name IS NOT NULL",
		},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.Statement(pg, "public.people"), c.v.Kind.String())
	}
}

func TestValidators_NullableAndOtherColumns(t *testing.T) {
	table := &schema.Table{
		Name: "t",
		Columns: []*schema.Column{
			schema.NewColumn("amount", "NUMERIC(10,2)", true),
			schema.NewColumn("at", "TIME", false),
		},
	}

	var kinds []validation.Kind
	for _, v := range validation.Validators(table) {
		kinds = append(kinds, v.Kind)
	}
	assert.Equal(t, []validation.Kind{
		validation.NullCount,
		validation.NullCount,
		validation.DateTime,
		validation.Record,
	}, kinds)
}
