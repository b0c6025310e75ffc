package migration

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoChange(t *testing.T) {
	changed, err := noChange(nil)
	assert.True(t, changed)
	assert.NoError(t, err)

	changed, err = noChange(migrate.ErrNoChange)
	assert.False(t, changed)
	assert.NoError(t, err)

	boom := errors.New("boom")
	changed, err = noChange(boom)
	assert.False(t, changed)
	assert.ErrorIs(t, err, boom)
}

func TestSources(t *testing.T) {
	dir := FromDir("/srv/migrations")
	assert.Equal(t, "file:///srv/migrations", dir.url)
	assert.Nil(t, dir.driver)

	embedded := FromFS(fstest.MapFS{
		"000001_init.up.sql":   {Data: []byte("SELECT 1;")},
		"000001_init.down.sql": {Data: []byte("SELECT 1;")},
	}, ".")
	require.NotNil(t, embedded.driver)
	drv, err := embedded.driver()
	require.NoError(t, err)
	defer drv.Close()

	first, err := drv.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}
