package main

import (
	"bytes"
	"flag"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-sync/internal/app"
	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

func TestMonthArg(t *testing.T) {
	a := &app.App{Config: &config.Config{CivilOffsetMinutes: 480}}

	t.Run("explicit", func(t *testing.T) {
		f := flag.NewFlagSet("month", flag.ContinueOnError)
		require.NoError(t, f.Parse([]string{"2024-02"}))

		month, err := monthArg(f, a)
		require.NoError(t, err)
		assert.Equal(t, timeboundary.MonthKey("2024-02"), month)
	})

	t.Run("default is current civil month", func(t *testing.T) {
		f := flag.NewFlagSet("month", flag.ContinueOnError)
		require.NoError(t, f.Parse(nil))

		month, err := monthArg(f, a)
		require.NoError(t, err)
		assert.Equal(t, timeboundary.CivilMonthKey(time.Now(), 480), month)
	})

	t.Run("invalid", func(t *testing.T) {
		f := flag.NewFlagSet("month", flag.ContinueOnError)
		require.NoError(t, f.Parse([]string{"2024-13"}))

		_, err := monthArg(f, a)
		assert.Error(t, err)
	})
}

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	printEntries(&buf, []ledger.Entry{{
		ID:         "e1",
		Note:       "groceries",
		Amount:     decimal.RequireFromString("120.5"),
		Currency:   ledger.CurrencyTWD,
		OccurredAt: time.Date(2024, 1, 31, 16, 30, 0, 0, time.UTC),
		Scope:      ledger.ScopeHousehold,
	}})

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "e1")
	assert.Contains(t, out, "120.50 TWD")
	assert.Contains(t, out, "groceries")
}

func TestRevalidateRequiresMonth(t *testing.T) {
	f := flag.NewFlagSet("revalidate", flag.ContinueOnError)
	require.NoError(t, f.Parse(nil))

	assert.Equal(t, subcommands.ExitUsageError, (&revalidateCmd{}).Execute(t.Context(), f))
}
