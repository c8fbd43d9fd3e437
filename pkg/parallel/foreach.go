/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: foreach.go
Description: Bounded fan-out over an index range. Used to grow the rules of one layer
concurrently, one goroutine per class, with at most limit goroutines running.
*/

package parallel

import (
	"runtime"
	"sync"
)

// Limit resolves a configured worker count. Zero or negative means GOMAXPROCS.
func Limit(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// ForEach runs body for every i in [0, length) with at most limit concurrent goroutines
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// ForEachErr is ForEach for bodies that can fail. Every index runs; the error of
// the lowest failing index is returned so the result does not depend on scheduling.
func ForEachErr(length, limit int, body func(i int) error) error {
	if length <= 0 {
		return nil
	}
	errs := make([]error, length)
	ForEach(length, limit, func(i int) {
		errs[i] = body(i)
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
