package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	// Strict strategy passes (prefix string, year int) and increments by 1.
	// Cached strategy passes (key string, increment int64).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func TestNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(ctx, "PO", period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00001" {
		t.Errorf("expected PO-2026-00001, got %s", num)
	}

	num, err = svc.NextNumber(ctx, "PO", period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00002" {
		t.Errorf("expected PO-2026-00002, got %s", num)
	}

	// Strict hits the database on every call.
	if q.calls != 2 {
		t.Errorf("expected 2 queries, got %d", q.calls)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("SO")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 10; i++ {
		num, err := svc.GetNextNumber(ctx, cfg, opts, period)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := svc.formatNumber(cfg, period, i)
		if num != want {
			t.Errorf("expected %s, got %s", want, num)
		}
	}

	// One range allocation serves all ten numbers.
	if q.calls != 1 {
		t.Errorf("expected 1 query for the range, got %d", q.calls)
	}
}

func TestFormatNumber(t *testing.T) {
	svc := New(&mockQuerier{})
	period := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	cfg := DefaultConfig("RET")
	if got := svc.formatNumber(cfg, period, 42); got != "RET-2026-00042" {
		t.Errorf("expected RET-2026-00042, got %s", got)
	}

	cfg.IncludeYear = false
	cfg.PadWidth = 3
	if got := svc.formatNumber(cfg, period, 42); got != "RET-042" {
		t.Errorf("expected RET-042, got %s", got)
	}
}

func TestBuildKey_ResetPeriods(t *testing.T) {
	svc := New(&mockQuerier{})
	period := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		reset string
		want  string
	}{
		{reset: "year", want: "PO_2026"},
		{reset: "month", want: "PO_2026_07"},
		{reset: "never", want: "PO"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig("PO")
		cfg.ResetPeriod = tt.reset
		if got := svc.buildKey(cfg, period); got != tt.want {
			t.Errorf("reset %q: expected %s, got %s", tt.reset, tt.want, got)
		}
	}
}
