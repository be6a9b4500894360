package tx

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerierFrom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	assert.Same(t, db, QuerierFrom(ctx, db))

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	got, ok := From(WithTx(ctx, tx))
	require.True(t, ok)
	assert.Same(t, tx, got)
	assert.Same(t, tx, QuerierFrom(WithTx(ctx, tx), db))
}

func TestWithTx_NilLeavesContextUnchanged(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithTx(ctx, nil))

	_, ok := From(ctx)
	assert.False(t, ok)
}
