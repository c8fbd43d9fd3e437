/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: foreach_test.go
Description: Tests for the bounded fan-out helpers.
*/

package parallel_test

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kleascm/frbdt/pkg/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	const n = 100
	var hits [n]int32

	parallel.ForEach(n, 8, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestForEachRespectsLimit(t *testing.T) {
	var running, peak int32

	parallel.ForEach(32, 3, func(int) {
		now := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&running, -1)
	})

	assert.LessOrEqual(t, peak, int32(3))
	assert.GreaterOrEqual(t, peak, int32(1))
}

func TestForEachEmptyAndBadLimit(t *testing.T) {
	called := false
	parallel.ForEach(0, 4, func(int) { called = true })
	assert.False(t, called)

	var count int32
	parallel.ForEach(5, 0, func(int) { atomic.AddInt32(&count, 1) })
	assert.Equal(t, int32(5), count)
}

func TestForEachErrReturnsLowestIndexError(t *testing.T) {
	var count int32
	err := parallel.ForEachErr(10, 4, func(i int) error {
		atomic.AddInt32(&count, 1)
		if i == 3 || i == 7 {
			return fmt.Errorf("index %d failed", i)
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, "index 3 failed", err.Error())
	assert.Equal(t, int32(10), count, "every index still runs")

	assert.NoError(t, parallel.ForEachErr(3, 2, func(int) error { return nil }))
	assert.NoError(t, parallel.ForEachErr(0, 2, func(int) error { return errors.New("never") }))
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 4, parallel.Limit(4))
	assert.Equal(t, runtime.GOMAXPROCS(0), parallel.Limit(0))
	assert.Equal(t, runtime.GOMAXPROCS(0), parallel.Limit(-2))
}
