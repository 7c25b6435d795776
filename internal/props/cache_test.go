package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	Service
	calls int
}

func (c *countingService) StateFromPT(fluid Fluid, pBar, tC float64) (State, error) {
	c.calls++
	return c.Service.StateFromPT(fluid, pBar, tC)
}

func TestCachedServiceMemoizes(t *testing.T) {
	inner := &countingService{Service: New()}
	svc, err := Cached(inner, 8)
	require.NoError(t, err)

	a, err := svc.StateFromPT(Water, 10, 200)
	require.NoError(t, err)
	b, err := svc.StateFromPT(Water, 10, 200)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, svc.Len())
}

func TestCachedServiceSkipsErrors(t *testing.T) {
	inner := &countingService{Service: New()}
	svc, err := Cached(inner, 8)
	require.NoError(t, err)

	_, err = svc.StateFromPT(Water, 10, 2000)
	require.Error(t, err)
	_, err = svc.StateFromPT(Water, 10, 2000)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, svc.Len())
}

func TestCachedServiceEvicts(t *testing.T) {
	svc, err := Cached(New(), 2)
	require.NoError(t, err)

	for _, tc := range []float64{100, 200, 300} {
		_, err := svc.StateFromPT(Air, 1, tc)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, svc.Len())
}
