package server

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(5*time.Second, quartz.NewMock(t), EngineConfig{
		Cache:  NewInMemoryCache(),
		Bus:    NewAsyncBus(16, discardLogger()),
		Audit:  &fakeAudit{},
		Socket: &fakeSocket{},
		Logger: discardLogger(),
	})
	t.Cleanup(reg.Shutdown)
	return reg
}

func TestRegistry_GetOrCreateReturnsSameEngine(t *testing.T) {
	reg := newTestRegistry(t)

	a := reg.GetOrCreate("t1", 20)
	b := reg.GetOrCreate("t1", 20)
	assert.Same(t, a, b, "a second GetOrCreate for the same table must return the existing engine")
}

func TestRegistry_DistinctTablesGetDistinctEngines(t *testing.T) {
	reg := newTestRegistry(t)

	a := reg.GetOrCreate("t1", 20)
	b := reg.GetOrCreate("t2", 20)
	assert.NotSame(t, a, b)
}

func TestRegistry_GetMissingReturnsFalse(t *testing.T) {
	reg := newTestRegistry(t)
	_, ok := reg.Get("no-such-table")
	require.False(t, ok)
}

func TestRegistry_GetAfterCreateReturnsTrue(t *testing.T) {
	reg := newTestRegistry(t)
	reg.GetOrCreate("t1", 20)

	e, ok := reg.Get("t1")
	require.True(t, ok)
	assert.NotNil(t, e)
}
