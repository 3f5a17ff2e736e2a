package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 120)

	require.Equal(t, 1, p.Page)
	require.Equal(t, 25, p.PerPage)
	require.Equal(t, 120, p.Total)
	require.Equal(t, 5, p.TotalPages)
	require.Equal(t, 0, p.Offset())
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 20, 95)

	require.Equal(t, 40, p.Offset())
	require.Equal(t, 5, p.TotalPages)
}
