package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/models"
)

func strPtr(s string) *string { return &s }

func TestToModelEntry_FlattensDetail(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("shared expense", func(t *testing.T) {
		e, err := domain.NewEntry("h1", domain.EntryDraft{
			Kind: domain.EntryKindExpense, Amount: 1000, OccurredAt: at,
			PayerMemberID: "m1", Shared: true, AccountID: strPtr("acc-1"),
		})
		require.NoError(t, err)

		m := ToModelEntry(e)

		assert.Equal(t, "expense", m.Kind)
		assert.True(t, m.Shared)
		assert.Equal(t, "acc-1", *m.AccountID)
		assert.Nil(t, m.TransferKind)
		assert.Nil(t, m.FromAccountID)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m.EntryDate)
	})

	t.Run("transfer", func(t *testing.T) {
		out := domain.TransferExternalOut
		e, err := domain.NewEntry("h1", domain.EntryDraft{
			Kind: domain.EntryKindTransfer, TransferKind: &out, Amount: 500, OccurredAt: at,
			PayerMemberID: "m1", FromAccountID: strPtr("a"), ToAccountID: strPtr("b"),
		})
		require.NoError(t, err)

		m := ToModelEntry(e)

		assert.Equal(t, "transfer", m.Kind)
		assert.Equal(t, "external_out", *m.TransferKind)
		assert.Nil(t, m.AccountID)
		assert.False(t, m.Shared)

		back, err := ToDomainEntry(m)
		require.NoError(t, err)
		assert.Equal(t, e, back)
	})
}

func TestToDomainEntry_RejectsInconsistentRows(t *testing.T) {
	_, err := ToDomainEntry(models.Entry{EntryID: "x", Kind: "transfer", FromAccountID: strPtr("a")})
	assert.Error(t, err)

	_, err = ToDomainEntry(models.Entry{EntryID: "y", Kind: "gift"})
	assert.Error(t, err)
}
