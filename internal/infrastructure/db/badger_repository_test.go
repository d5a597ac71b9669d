package db

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBadgerMaterialRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerMaterialRepository(openTestDB(t))

	bolt := &entity.Material{ID: "M001", Name: "Bolt 8mm", Unit: "pcs", Quantity: 10}
	nut := &entity.Material{ID: "M002", Name: "Nut 8mm", Unit: "pcs", Quantity: 3, Status: entity.StatusExpired}

	require.NoError(t, repo.Insert(ctx, bolt))
	require.NoError(t, repo.Insert(ctx, nut))

	t.Run("Duplicate id", func(t *testing.T) {
		err := repo.Insert(ctx, &entity.Material{ID: "M001", Name: "Other", Unit: "kg"})
		assert.ErrorIs(t, err, entity.ErrDuplicateID)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Find by id", func(t *testing.T) {
		m, err := repo.FindByID(ctx, "M002")
		require.NoError(t, err)
		assert.Equal(t, nut, m)

		_, err = repo.FindByID(ctx, "m002")
		assert.ErrorIs(t, err, entity.ErrMaterialNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		updated := bolt.Clone()
		updated.Quantity = 42
		require.NoError(t, repo.Update(ctx, updated))

		m, err := repo.FindByID(ctx, "M001")
		require.NoError(t, err)
		assert.Equal(t, 42, m.Quantity)

		err = repo.Update(ctx, &entity.Material{ID: "missing"})
		assert.ErrorIs(t, err, entity.ErrMaterialNotFound)
	})

	t.Run("List keeps insertion order then follows reorder", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "M001", list[0].ID)
		assert.Equal(t, "M002", list[1].ID)

		require.NoError(t, repo.Reorder(ctx, []string{"M002", "M001"}))
		list, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "M002", list[0].ID)
		assert.Equal(t, "M001", list[1].ID)

		assert.Error(t, repo.Reorder(ctx, []string{"M002"}))
		assert.Error(t, repo.Reorder(ctx, []string{"M002", "M002"}))
	})
}

func TestBadgerTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerTransactionRepository(openTestDB(t))
	date := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	last, err := repo.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	// more than 255 entries to cross a byte boundary in the key
	for i := 1; i <= 300; i++ {
		tx := &entity.Transaction{
			ID:         "T" + string(rune('0'+i%10)),
			MaterialID: "M001",
			Direction:  entity.DirectionIn,
			Amount:     i,
			Date:       date,
		}
		require.NoError(t, repo.Append(ctx, tx))
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 300)
	for i, tx := range list {
		assert.Equal(t, i+1, tx.Amount)
	}

	last, err = repo.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 300, last.Amount)
	assert.True(t, date.Equal(last.Date))
}
