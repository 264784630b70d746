package dig_container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/rapor/apps/api/echo"
	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/report"
)

func TestNew(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DATABASE_ENGINE", "sqlite3")
	t.Setenv("TEST_DATABASE_NAME", ":memory:")

	c := New()
	err := c.Invoke(func(conf *core.Config, server *echoapi.Server, reports *report.Service, emails core.EmailService) {
		assert.True(t, conf.TestMode)
		assert.Equal(t, "sqlite3", conf.Database.Engine)
		assert.NotNil(t, server)
		assert.NotNil(t, reports)
		assert.NotNil(t, emails)
	})
	require.NoError(t, err)
}
