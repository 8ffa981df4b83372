package dig_container

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/studentcoin/apps/api/echo"
	"github.com/trezcool/studentcoin/core/access"
	kvstore "github.com/trezcool/studentcoin/storage/kv"
)

func TestNew(t *testing.T) {
	require.NoError(t, os.Setenv("ENV", "TEST"))
	require.NoError(t, os.Setenv("TEST_STORE_DRIVER", "memory"))
	defer func() {
		_ = os.Unsetenv("ENV")
		_ = os.Unsetenv("TEST_STORE_DRIVER")
	}()

	c := New()
	err := c.Invoke(func(store kvstore.Store, sessions *access.Sessions, registry *access.Registry, server *echoapi.Server) {
		assert.NotNil(t, store)
		assert.NotNil(t, sessions)
		assert.NotNil(t, server)
		_, ok := registry.Lookup(access.ResTeacherDashboard)
		assert.True(t, ok)
	})
	assert.NoError(t, err)
}
