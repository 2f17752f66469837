package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/posvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type referenceData struct {
	Branches  []string `json:"branches"`
	Suppliers []string `json:"suppliers"`
}

func TestSnapshot_SetGetRoundTrip(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	in := referenceData{Branches: []string{"riga", "vilnius"}, Suppliers: []string{"acme"}}
	require.NoError(t, v.SetSnapshot(ctx, "reference_data", in))

	var out referenceData
	require.NoError(t, v.GetSnapshot(ctx, "reference_data", &out))
	assert.Equal(t, in, out)
}

func TestSnapshot_AbsentKeyIsNotFound(t *testing.T) {
	v := setupVault(t, Options{})

	var out referenceData
	err := v.GetSnapshot(context.Background(), "absent", &out)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSnapshot_UpsertReplaces(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	require.NoError(t, v.SetSnapshot(ctx, "k", referenceData{Branches: []string{"old"}}))
	require.NoError(t, v.SetSnapshot(ctx, "k", referenceData{Branches: []string{"new"}}))

	var out referenceData
	require.NoError(t, v.GetSnapshot(ctx, "k", &out))
	assert.Equal(t, []string{"new"}, out.Branches)
}

func TestSnapshot_StoredEncrypted(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	require.NoError(t, v.SetSnapshot(ctx, "secret", map[string]string{"code": "plaintext-marker"}))

	var blob []byte
	require.NoError(t, v.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = 'secret'`).Scan(&blob))
	assert.NotContains(t, string(blob), "plaintext-marker")
}

func TestReceipts_EmptyWithoutHistory(t *testing.T) {
	v := setupVault(t, Options{})

	got, err := v.Receipts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAppendReceipt_NewestFirstAndBounded(t *testing.T) {
	const limit = 5
	v := setupVault(t, Options{HistoryLimit: limit})
	ctx := context.Background()

	for i := 0; i < limit+3; i++ {
		require.NoError(t, v.AppendReceipt(ctx, map[string]int{"receipt": i}))
	}

	got, err := v.Receipts(ctx)
	require.NoError(t, err)
	require.Len(t, got, limit)

	// Newest first; the oldest three were truncated.
	for i, raw := range got {
		assert.JSONEq(t, fmt.Sprintf(`{"receipt":%d}`, limit+2-i), string(raw))
	}
}

func TestAppendReceipt_PreservesEntryShape(t *testing.T) {
	v := setupVault(t, Options{})
	ctx := context.Background()

	entry := map[string]any{"no": "R-001", "total": 12.5}
	require.NoError(t, v.AppendReceipt(ctx, entry))

	got, err := v.Receipts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	var out map[string]any
	require.NoError(t, json.Unmarshal(got[0], &out))
	assert.Equal(t, "R-001", out["no"])
	assert.Equal(t, 12.5, out["total"])
}
