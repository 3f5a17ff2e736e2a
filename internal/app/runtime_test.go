package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/almacen-erp/almacen-erp/internal/testing/guard"
)

func TestInTestModeFollowsEnvironment(t *testing.T) {
	require.True(t, InTestMode())

	t.Setenv("ALMACEN_TEST_MODE", "")
	RefreshTestMode()
	require.False(t, InTestMode())

	t.Setenv("ALMACEN_TEST_MODE", "1")
	RefreshTestMode()
	require.True(t, InTestMode())
}
