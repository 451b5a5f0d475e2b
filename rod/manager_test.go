//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/docscout/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_RecyclesAfterThreshold(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithRecycleAfter(3))
	require.NoError(t, err)
	defer manager.Close()

	first := manager.Browser()
	require.NotNil(t, first)

	manager.PageDone()
	manager.PageDone()
	manager.PageDone()

	second := manager.Browser()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
}

func TestBrowserManager_KeepsBrowserBelowThreshold(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithRecycleAfter(5))
	require.NoError(t, err)
	defer manager.Close()

	first := manager.Browser()
	require.NotNil(t, first)

	manager.PageDone()
	manager.PageDone()

	assert.Same(t, first, manager.Browser())
}

func TestBrowserManager_BrowserIsNilAfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())

	assert.True(t, manager.Closed())
	assert.Nil(t, manager.Browser())
	assert.Zero(t, manager.LauncherPID())
}
