package postgres

import (
	"advisorchat-backend/internal/models"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow hands fixed column values to Scan the way pgx does for simple
// types: sql.Scanner targets get the raw value, everything else is assigned.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		if sc, ok := d.(sql.Scanner); ok {
			if err := sc.Scan(r.values[i]); err != nil {
				return err
			}
			continue
		}
		target := reflect.ValueOf(d).Elem()
		v := reflect.ValueOf(r.values[i])
		if !v.IsValid() {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		if target.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer {
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(v.Convert(target.Type().Elem()))
			target.Set(p)
			continue
		}
		target.Set(v.Convert(target.Type()))
	}
	return nil
}

func TestScanMessageDecodesChartData(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	row := fakeRow{values: []any{
		int64(7), int64(3), "assistant", "Here is the allocation",
		[]byte(`{"chartType":"pie","data":{"labels":["Stocks","Bonds"]}}`), ts,
	}}

	var m models.ChatMessage
	require.NoError(t, scanMessage(row, &m))
	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, int64(3), m.SessionID)
	assert.Equal(t, models.RoleAssistant, m.Role)
	assert.Equal(t, ts, m.Timestamp)
	require.NotNil(t, m.ChartData)
	assert.Equal(t, "pie", m.ChartData["chartType"])
	data, ok := m.ChartData["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Stocks", "Bonds"}, data["labels"])
}

func TestScanMessageWithoutChart(t *testing.T) {
	row := fakeRow{values: []any{int64(1), int64(1), "user", "hello", []byte(nil), time.Now()}}

	var m models.ChatMessage
	require.NoError(t, scanMessage(row, &m))
	assert.Nil(t, m.ChartData)
}

func TestScanMessageRejectsBrokenChart(t *testing.T) {
	row := fakeRow{values: []any{int64(1), int64(1), "assistant", "x", []byte(`{"chartType":`), time.Now()}}

	var m models.ChatMessage
	err := scanMessage(row, &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse chart data")
}

func TestScanAccountNumericBalance(t *testing.T) {
	now := time.Now().UTC()
	row := fakeRow{values: []any{int64(2), int64(5), "ACC-0005-01", "investment", "125000.50", now, now}}

	var a models.Account
	require.NoError(t, scanAccount(row, &a))
	assert.Equal(t, models.AccountTypeInvestment, a.AccountType)
	assert.True(t, decimal.RequireFromString("125000.50").Equal(a.Balance), a.Balance.String())
	assert.Equal(t, 125000.5, a.Balance.InexactFloat64())
}

func TestScanPropagatesRowError(t *testing.T) {
	var m models.ChatMessage
	err := scanMessage(fakeRow{err: errors.New("no rows in result set")}, &m)
	assert.EqualError(t, err, "no rows in result set")
}

func TestPgErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unique violation", &pgconn.PgError{Code: codeUniqueViolation}, "23505"},
		{"wrapped foreign key violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeForeignKeyViolation}), "23503"},
		{"plain error", errors.New("connection reset"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, pgErrorCode(tt.err))
		})
	}
}
