package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO t`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.NoError(t, mock.ExpectationsWereMet())
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.EqualError(t, err, "commit failed")
}

func TestCollect(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT v FROM t`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("a").AddRow("b"))

	rows, err := db.Query(`SELECT v FROM t`)
	require.NoError(t, err)

	got, err := Collect(rows, func(r *sql.Rows) (string, error) {
		var s string
		return s, r.Scan(&s)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestCollect_RowError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT v FROM t`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("a").AddRow("b").RowError(1, errors.New("row-err")))

	rows, err := db.Query(`SELECT v FROM t`)
	require.NoError(t, err)

	_, err = Collect(rows, func(r *sql.Rows) (string, error) {
		var s string
		return s, r.Scan(&s)
	})
	require.EqualError(t, err, "row-err")
}

func TestExecAffected(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`UPDATE t`).WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE t`).WillReturnError(errors.New("boom"))
	mock.ExpectExec(`UPDATE t`).WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

	n, err := ExecAffected(context.Background(), db, `UPDATE t SET v = $1`, "x")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, err = ExecAffected(context.Background(), db, `UPDATE t SET v = 1`)
	require.EqualError(t, err, "db error: boom")

	_, err = ExecAffected(context.Background(), db, `UPDATE t SET v = 1`)
	require.EqualError(t, err, "rows affected error: no count")
	require.NoError(t, mock.ExpectationsWereMet())
}
