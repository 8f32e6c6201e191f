// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping

import (
	"fmt"
	"github.com/dgraph-io/ristretto"
)

// exposureCache holds copies of exposure details keyed by id. Callers always
// get their own copy back.
type exposureCache struct {
	cache *ristretto.Cache
}

func newExposureCache(maxItems int64) (*exposureCache, error) {
	// Each entry costs 1, so MaxCost is an item count.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxItems * 10,
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("passwordping: creating exposure cache: %w", err)
	}

	return &exposureCache{cache: cache}, nil
}

func (e *exposureCache) get(id string) (*ExposureDetails, bool) {
	v, ok := e.cache.Get(id)
	if !ok {
		return nil, false
	}

	d, ok := v.(*ExposureDetails)
	if !ok {
		return nil, false
	}

	return d.clone(), true
}

func (e *exposureCache) set(id string, d *ExposureDetails) {
	e.cache.Set(id, d.clone(), 1)
	// Sets are buffered; make the entry visible before the call returns.
	e.cache.Wait()
}

func (e *exposureCache) close() {
	e.cache.Close()
}
