package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLifecycle(t *testing.T) {
	t.Parallel()

	calls := 0
	res := NewResource(func(context.Context) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("boom")
		}
		return "v" + string(rune('0'+calls)), nil
	})

	data, err, loading := res.State()
	assert.Empty(t, data)
	assert.NoError(t, err)
	assert.True(t, loading, "resources start out loading")

	require.NoError(t, res.Load(context.Background()))
	data, err, loading = res.State()
	assert.Equal(t, "v1", data)
	assert.NoError(t, err)
	assert.False(t, loading)

	require.Error(t, res.Load(context.Background()))
	data, err, loading = res.State()
	assert.Empty(t, data, "a failed load clears data")
	assert.EqualError(t, err, "boom")
	assert.False(t, loading)

	res.Set("local")
	data, _, _ = res.State()
	assert.Equal(t, "local", data)
}

func TestResourceRetainPreviousData(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	first := true
	res := NewResource(func(context.Context) (int, error) {
		if first {
			first = false
			return 1, nil
		}
		started <- struct{}{}
		<-release
		return 2, nil
	}, WithRetainPreviousData())

	require.NoError(t, res.Load(context.Background()))

	done := make(chan error, 1)
	go func() { done <- res.Load(context.Background()) }()
	<-started

	data, _, loading := res.State()
	assert.Equal(t, 1, data, "previous data stays visible while reloading")
	assert.True(t, loading)

	close(release)
	require.NoError(t, <-done)
	data, _, loading = res.State()
	assert.Equal(t, 2, data)
	assert.False(t, loading)
}

func TestResourceClearsDataWhileReloading(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	first := true
	res := NewResource(func(context.Context) (int, error) {
		if first {
			first = false
			return 1, nil
		}
		started <- struct{}{}
		<-release
		return 2, nil
	})

	require.NoError(t, res.Load(context.Background()))
	done := make(chan error, 1)
	go func() { done <- res.Load(context.Background()) }()
	<-started

	data, _, loading := res.State()
	assert.Zero(t, data)
	assert.True(t, loading)

	close(release)
	require.NoError(t, <-done)
}
