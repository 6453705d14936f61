package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(3, 20, 45)
	require.Equal(t, 3, p.Page)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 40, p.Offset())

	// Out-of-range inputs normalize instead of producing negative offsets.
	p = NewPagination(0, 0, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 0, p.Offset())
	require.Equal(t, 1, p.TotalPages)
}
