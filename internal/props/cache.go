package props

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	op    Op
	fluid Fluid
	a, b  float64
}

// CachedService memoizes successful lookups of another Service. Failed lookups
// are passed through and not stored.
type CachedService struct {
	next  Service
	cache *lru.Cache[cacheKey, State]
}

func Cached(next Service, size int) (*CachedService, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[cacheKey, State](size)
	if err != nil {
		return nil, err
	}
	return &CachedService{next: next, cache: c}, nil
}

func (c *CachedService) lookup(k cacheKey, fn func() (State, error)) (State, error) {
	if st, ok := c.cache.Get(k); ok {
		return st, nil
	}
	st, err := fn()
	if err != nil {
		return State{}, err
	}
	c.cache.Add(k, st)
	return st, nil
}

func (c *CachedService) StateFromPT(fluid Fluid, pBar, tC float64) (State, error) {
	return c.lookup(cacheKey{OpPT, fluid, pBar, tC}, func() (State, error) {
		return c.next.StateFromPT(fluid, pBar, tC)
	})
}

func (c *CachedService) StateFromPS(fluid Fluid, pBar, s float64) (State, error) {
	return c.lookup(cacheKey{OpPS, fluid, pBar, s}, func() (State, error) {
		return c.next.StateFromPS(fluid, pBar, s)
	})
}

func (c *CachedService) StateFromPH(fluid Fluid, pBar, h float64) (State, error) {
	return c.lookup(cacheKey{OpPH, fluid, pBar, h}, func() (State, error) {
		return c.next.StateFromPH(fluid, pBar, h)
	})
}

func (c *CachedService) SaturatedLiquid(fluid Fluid, pBar float64) (State, error) {
	return c.lookup(cacheKey{OpPQ0, fluid, pBar, 0}, func() (State, error) {
		return c.next.SaturatedLiquid(fluid, pBar)
	})
}

// Len reports the number of cached states.
func (c *CachedService) Len() int {
	return c.cache.Len()
}
