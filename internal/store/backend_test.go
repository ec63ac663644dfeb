package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/jobtrack/internal/config"
)

// exerciseBackend checks the contract every backend shares
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Read(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Write(ctx, testKey, []byte(`{"version":1}`)))
	got, err := b.Read(ctx, testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(got))

	require.NoError(t, b.Write(ctx, testKey, []byte(`{"version":2}`)))
	got, err = b.Read(ctx, testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(got))

	_, err = b.Read(ctx, "other-key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f, err := NewFile(dir)
	require.NoError(t, err)

	exerciseBackend(t, f)
	assert.FileExists(t, filepath.Join(dir, testKey+".json"))
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "jobtrack.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseBackend(t, s)
}

func TestSQLite_WriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS documents`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs(testKey, `{}`, sqlmock.AnyArg()).
		WillReturnError(errors.New("database or disk is full"))

	s, err := NewSQLite(db)
	require.NoError(t, err)

	err = s.Write(context.Background(), testKey, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk is full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS documents`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT value FROM documents WHERE key = \?`).
		WithArgs(testKey).
		WillReturnError(errors.New("database is locked"))

	s, err := NewSQLite(db)
	require.NoError(t, err)

	_, err = s.Read(context.Background(), testKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_SchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("readonly database"))

	_, err = NewSQLite(db)
	assert.ErrorContains(t, err, "init schema")
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewRedis(client)
	defer r.Close()

	exerciseBackend(t, r)

	stored, err := mr.Get(testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, stored)
	assert.Zero(t, mr.TTL(testKey))
}

func TestRedis_Unreachable(t *testing.T) {
	_, err := OpenRedis(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.StorageConfig
		want interface{}
	}{
		{"sqlite", config.StorageConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "j.db")}, &SQLite{}},
		{"file", config.StorageConfig{Driver: config.DriverFile, Path: t.TempDir()}, &File{}},
		{"redis", config.StorageConfig{Driver: config.DriverRedis, Redis: config.RedisConfig{Address: mr.Addr()}}, &Redis{}},
		{"memory", config.StorageConfig{Driver: config.DriverMemory}, &Memory{}},
		{"none", config.StorageConfig{Driver: config.DriverNone}, Unavailable{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenBackend(ctx, tt.cfg)
			require.NoError(t, err)
			defer b.Close()
			assert.IsType(t, tt.want, b)
		})
	}

	_, err := OpenBackend(ctx, config.StorageConfig{Driver: "mongodb"})
	assert.Error(t, err)
}
