package database

import (
	"testing"

	"akaguriroo-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_SharesPool(t *testing.T) {
	db := testutil.NewDB(t)
	r, err := Reader(db)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", r.DriverName())
	assert.Equal(t, "SELECT ?", r.Rebind("SELECT ?"))
	var n int
	require.NoError(t, r.Get(&n, r.Rebind("SELECT COUNT(*) FROM listings WHERE stock >= ?"), 0))
	assert.Equal(t, 0, n)
}
