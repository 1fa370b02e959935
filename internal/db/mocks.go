package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// MockTransaction is a mock implementation of Transaction. Tests that only
// pass the transaction through to mocked stores need nothing beyond
// Commit/Rollback expectations.
type MockTransaction struct {
	mock.Mock
}

var _ Transaction = (*MockTransaction)(nil)

func (m *MockTransaction) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTransaction) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTransaction) DriverName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTransaction) ExecContext(ctx context.Context, query string, arguments ...interface{}) (sql.Result, error) {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *MockTransaction) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	args := m.Called(ctx, query, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *MockTransaction) GetContext(ctx context.Context, dest interface{}, query string, arguments ...interface{}) error {
	args := m.Called(ctx, dest, query, arguments)
	return args.Error(0)
}

func (m *MockTransaction) SelectContext(ctx context.Context, dest interface{}, query string, arguments ...interface{}) error {
	args := m.Called(ctx, dest, query, arguments)
	return args.Error(0)
}

func (m *MockTransaction) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Stmt), args.Error(1)
}

func (m *MockTransaction) QueryContext(ctx context.Context, query string, arguments ...interface{}) (*sql.Rows, error) {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Rows), args.Error(1)
}

func (m *MockTransaction) QueryxContext(ctx context.Context, query string, arguments ...interface{}) (*sqlx.Rows, error) {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqlx.Rows), args.Error(1)
}

func (m *MockTransaction) QueryRowxContext(ctx context.Context, query string, arguments ...interface{}) *sqlx.Row {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*sqlx.Row)
}

func (m *MockTransaction) Rebind(query string) string {
	args := m.Called(query)
	return args.String(0)
}

// MockConnectionPool is a mock implementation of ConnectionPool.
type MockConnectionPool struct {
	mock.Mock
}

var _ ConnectionPool = (*MockConnectionPool)(nil)

func (m *MockConnectionPool) BeginTxx(ctx context.Context, opts *sql.TxOptions) (Transaction, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Transaction), args.Error(1)
}

func (m *MockConnectionPool) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockConnectionPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConnectionPool) SqlDB(ctx context.Context) (*sql.DB, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.DB), args.Error(1)
}

func (m *MockConnectionPool) SqlxDB(ctx context.Context) (*sqlx.DB, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqlx.DB), args.Error(1)
}

func (m *MockConnectionPool) DriverName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConnectionPool) ExecContext(ctx context.Context, query string, arguments ...interface{}) (sql.Result, error) {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *MockConnectionPool) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	args := m.Called(ctx, query, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *MockConnectionPool) GetContext(ctx context.Context, dest interface{}, query string, arguments ...interface{}) error {
	args := m.Called(ctx, dest, query, arguments)
	return args.Error(0)
}

func (m *MockConnectionPool) SelectContext(ctx context.Context, dest interface{}, query string, arguments ...interface{}) error {
	args := m.Called(ctx, dest, query, arguments)
	return args.Error(0)
}

func (m *MockConnectionPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Stmt), args.Error(1)
}

func (m *MockConnectionPool) QueryContext(ctx context.Context, query string, arguments ...interface{}) (*sql.Rows, error) {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Rows), args.Error(1)
}

func (m *MockConnectionPool) QueryxContext(ctx context.Context, query string, arguments ...interface{}) (*sqlx.Rows, error) {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqlx.Rows), args.Error(1)
}

func (m *MockConnectionPool) QueryRowxContext(ctx context.Context, query string, arguments ...interface{}) *sqlx.Row {
	args := m.Called(ctx, query, arguments)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*sqlx.Row)
}

func (m *MockConnectionPool) Rebind(query string) string {
	args := m.Called(query)
	return args.String(0)
}
