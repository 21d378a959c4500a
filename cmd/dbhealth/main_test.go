package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	repo "github.com/joseph-ayodele/licitaciones/internal/repository"
)

func TestCountByStatus(t *testing.T) {
	ctx := context.Background()
	store, err := repo.OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Upsert(ctx, &entity.Licitacion{Source: entity.Source{EmailID: id}, Record: entity.EmptyRecord()})
		require.NoError(t, err)
	}
	_, err = store.UpdateApproval(ctx, "b", constants.ApprovalApproved, "")
	require.NoError(t, err)

	counts, err := countByStatus(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pending": 2, "approved": 1}, counts)
}
