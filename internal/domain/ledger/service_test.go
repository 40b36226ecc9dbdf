package ledger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

type memRepo struct {
	movements []Movement
}

func (r *memRepo) Record(ctx context.Context, movements []Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memRepo) ListByIMEI(ctx context.Context, im imei.IMEI) ([]Movement, error) {
	var out []Movement
	for _, m := range r.movements {
		if m.IMEI == im {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) SumQuantityByIMEI(ctx context.Context, im imei.IMEI) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.IMEI == im {
			sum += int64(m.QuantityChange)
		}
	}
	return sum, nil
}

func (r *memRepo) List(ctx context.Context, filter Filter) ([]Movement, error) {
	return r.movements, nil
}

const testIMEI = "356938035643809"

func TestReconcile_FullLifecycleNetsToOne(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := NewService(repo)
	unitID := id.New()
	im := imei.MustParse(testIMEI)

	// intake, sale, approved return
	require.NoError(t, svc.Record(ctx, []Movement{
		New(ctx, unitID, im, TypeIntake, 1, "", "IN_STOCK"),
	}))
	require.NoError(t, svc.Record(ctx, []Movement{
		New(ctx, unitID, im, TypeSale, -1, "IN_STOCK", "SOLD"),
	}))
	require.NoError(t, svc.Record(ctx, []Movement{
		New(ctx, unitID, im, TypeReturn, 1, "SOLD", "IN_STOCK"),
	}))

	net, err := svc.Reconcile(ctx, testIMEI)
	require.NoError(t, err)
	assert.EqualValues(t, 1, net)

	history, err := svc.HistoryForIMEI(ctx, testIMEI)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestRecord_RejectsInvalidMovement(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepo{})
	im := imei.MustParse(testIMEI)

	err := svc.Record(ctx, []Movement{
		New(ctx, id.New(), im, TypeIntake, 2, "", "IN_STOCK"),
	})
	assert.Error(t, err, "quantity change other than +/-1")

	err = svc.Record(ctx, []Movement{
		New(ctx, id.New(), im, "teleport", 1, "", "IN_STOCK"),
	})
	assert.Error(t, err, "unknown movement type")

	err = svc.Record(ctx, []Movement{
		New(ctx, id.Nil(), im, TypeIntake, 1, "", "IN_STOCK"),
	})
	assert.Error(t, err, "nil unit id")
}

func TestRecord_EmptyBatchIsNoop(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.Record(context.Background(), nil))
	assert.Empty(t, repo.movements)
}

func TestReconcile_MalformedIMEI(t *testing.T) {
	svc := NewService(&memRepo{})
	_, err := svc.Reconcile(context.Background(), "not-an-imei")
	assert.Error(t, err)
}

func TestExportNDJSON_GzipRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := NewService(repo)
	unitID := id.New()
	im := imei.MustParse(testIMEI)

	require.NoError(t, svc.Record(ctx, []Movement{
		New(ctx, unitID, im, TypeIntake, 1, "", "IN_STOCK"),
		New(ctx, unitID, im, TypeSale, -1, "IN_STOCK", "SOLD"),
	}))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportNDJSON(ctx, &buf, Filter{}))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	defer gz.Close()

	var lines []Movement
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var m Movement
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, TypeIntake, lines[0].Type)
	assert.Equal(t, im, lines[0].IMEI)
	assert.Equal(t, -1, lines[1].QuantityChange)
}
