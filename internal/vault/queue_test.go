package vault

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/posvault/internal/common"
	"github.com/dmitrijs2005/posvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueue_SetsDefaultsAndPersists(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	rec, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete,
		Payload:    map[string]any{"total": 1500, "lines": []any{map[string]any{"sku": "A", "qty": 2}}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.NotEmpty(t, rec.Checksum)
	assert.Positive(t, rec.SizeBytes)
	assert.Equal(t, rec.SizeBytes, int64(len(rec.Payload)))
	assert.False(t, rec.ProvisionalAt.IsZero())
	assert.False(t, rec.CreatedAt.IsZero())

	items, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, rec.ID, items[0].Record.ID)
	assert.False(t, items[0].Unreadable)
	assert.JSONEq(t, `{"total":1500,"lines":[{"sku":"A","qty":2}]}`, string(items[0].Payload))
}

func TestEnqueue_UnknownActionTypeRejected(t *testing.T) {
	v := setupVault(t, Options{})

	_, err := v.Enqueue(context.Background(), EnqueueRequest{
		ActionType: models.ActionType("REFUND"),
		Payload:    map[string]int{"x": 1},
	})
	require.Error(t, err)

	stats, err := v.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
}

func TestEnqueue_ItemQuotaEnforced(t *testing.T) {
	v := setupVault(t, Options{MaxItems: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := v.Enqueue(ctx, EnqueueRequest{
			ActionType: models.ActionStockAdjustment,
			Payload:    map[string]int{"n": i},
		})
		require.NoError(t, err)
	}

	_, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionStockAdjustment,
		Payload:    map[string]int{"n": 3},
	})
	require.ErrorIs(t, err, common.ErrTooManyItems)
	assert.True(t, common.IsCapacity(err))

	// The stored queue is unchanged.
	stats, err := v.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
}

func TestEnqueue_ByteQuotaEnforced(t *testing.T) {
	v := setupVault(t, Options{MaxBytes: 64})
	ctx := context.Background()

	// A single oversized payload whose encrypted size alone exceeds the
	// byte quota must fail without modifying stored state.
	big := make([]byte, 256)
	_, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionPurchaseDraft,
		Payload:    map[string]any{"blob": big},
	})
	require.ErrorIs(t, err, common.ErrTooManyBytes)

	stats, err := v.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.Bytes)
}

func TestList_OrderedByCreatedAt(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := v.Enqueue(ctx, EnqueueRequest{
			ActionType: models.ActionSaleComplete,
			Payload:    map[string]int{"n": i},
		})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	items, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := range ids {
		assert.Equal(t, ids[i], items[i].Record.ID)
	}
	assert.True(t, items[0].Record.CreatedAt.Before(items[1].Record.CreatedAt))
	assert.True(t, items[1].Record.CreatedAt.Before(items[2].Record.CreatedAt))
}

func TestEnqueue_ChecksumStableForSameInputs(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	at := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	payload := map[string]any{"total": 99, "branch": "riga"}

	r1, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: payload, ProvisionalAt: at,
	})
	require.NoError(t, err)
	r2, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: payload, ProvisionalAt: at,
	})
	require.NoError(t, err)

	// Same device, timestamp and payload: the server would treat the
	// second submission as a duplicate.
	assert.Equal(t, r1.Checksum, r2.Checksum)
	assert.NotEqual(t, r1.ID, r2.ID)
}

func TestUpdateStatus_EndToEndScenario(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	rec, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete,
		Payload:    map[string]any{"total": 1500},
	})
	require.NoError(t, err)

	before, err := v.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), before)

	require.NoError(t, v.UpdateStatus(ctx, rec.ID, StatusUpdate{Status: models.StatusApplied}))

	after, err := v.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, before-1, after)

	items, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusApplied, items[0].Record.Status)
	// Payload, checksum and created_at are untouched by the update.
	assert.Equal(t, rec.Checksum, items[0].Record.Checksum)
	assert.Equal(t, rec.CreatedAt, items[0].Record.CreatedAt)
}

func TestUpdateStatus_MissingIDIsNoop(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	_, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"n": 1},
	})
	require.NoError(t, err)

	require.NoError(t, v.UpdateStatus(ctx, "ghost", StatusUpdate{Status: models.StatusApplied}))

	n, err := v.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdateStatus_ConflictCarriesReason(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	rec, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionStockAdjustment, Payload: map[string]int{"delta": -2},
	})
	require.NoError(t, err)

	require.NoError(t, v.UpdateStatus(ctx, rec.ID, StatusUpdate{
		Status:         models.StatusConflict,
		ConflictReason: "stock level changed upstream",
	}))

	items, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusConflict, items[0].Record.Status)
	assert.Equal(t, "stock level changed upstream", items[0].Record.ConflictReason)
}

func TestRemove_BulkDelete(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := v.Enqueue(ctx, EnqueueRequest{
			ActionType: models.ActionSaleComplete, Payload: map[string]int{"n": i},
		})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	require.NoError(t, v.Remove(ctx, ids[:2]))

	items, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ids[2], items[0].Record.ID)
}

func TestNotifications_FollowQueueMutations(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	var published []int64
	unsub := v.OnQueueUpdated(func(n int64) { published = append(published, n) })

	rec, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"n": 1},
	})
	require.NoError(t, err)
	require.NoError(t, v.UpdateStatus(ctx, rec.ID, StatusUpdate{Status: models.StatusApplied}))
	require.NoError(t, v.Remove(ctx, []string{rec.ID}))

	assert.Equal(t, []int64{1, 0, 0}, published)

	unsub()
	_, err = v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"n": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 0}, published)
}

func TestNotifications_PanickingSubscriberDoesNotFailEnqueue(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	v.OnQueueUpdated(func(int64) { panic("badge update failed") })

	_, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"n": 1},
	})
	require.NoError(t, err)
}

func TestRotateKey_WipeScenario(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	rec, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"total": 42},
	})
	require.NoError(t, err)

	require.NoError(t, v.RotateKey(ctx))

	// The record still exists in the store but its payload is reported
	// as unreadable rather than throwing or returning plaintext.
	items, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, rec.ID, items[0].Record.ID)
	assert.True(t, items[0].Unreadable)
	assert.Nil(t, items[0].Payload)

	// Metadata-only operations keep working.
	stats, err := v.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)

	// New actions are encrypted under the fresh key and readable.
	_, err = v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"total": 7},
	})
	require.NoError(t, err)

	items, err = v.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Unreadable)
	assert.False(t, items[1].Unreadable)
	assert.JSONEq(t, `{"total":7}`, string(items[1].Payload))
}

func TestStats_ReportsQuotas(t *testing.T) {
	v := setupVault(t, Options{MaxItems: 10, MaxBytes: 1024})
	ctx := context.Background()

	rec, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete, Payload: map[string]int{"n": 1},
	})
	require.NoError(t, err)

	stats, err := v.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, rec.SizeBytes, stats.Bytes)
	assert.Equal(t, int64(10), stats.MaxItems)
	assert.Equal(t, int64(1024), stats.MaxBytes)
}

func TestEnqueue_PayloadNeverStoredInClear(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	_, err := v.Enqueue(ctx, EnqueueRequest{
		ActionType: models.ActionSaleComplete,
		Payload:    map[string]string{"customer": "very-secret-name"},
	})
	require.NoError(t, err)

	var blob []byte
	require.NoError(t, v.db.QueryRowContext(ctx, `SELECT payload FROM queue`).Scan(&blob))
	assert.NotContains(t, string(blob), "very-secret-name")

	var raw json.RawMessage
	require.Error(t, json.Unmarshal(blob, &raw), "stored payload must not be plaintext JSON")
}
