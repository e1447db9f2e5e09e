// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShardDontShareOneWorldPerGoroutine demonstrates the concurrency
// model: a client wanting parallelism runs one World per goroutine
// instead of sharing a single World across them. Each goroutine builds
// its own small graph and the results never cross, so there is nothing
// here for a race detector to catch — which is the point.
func TestShardDontShareOneWorldPerGoroutine(t *testing.T) {
	const shards = 8
	results := make([]int, shards)

	var wg sync.WaitGroup
	wg.Add(shards)
	for i := 0; i < shards; i++ {
		go func(i int) {
			defer wg.Done()
			w := NewWorld("shard")
			i32 := w.PrimType(KindI32)
			_ = i32
			lit := w.LitI64(KindI32, int64(i))
			sum := w.Arithop(ArithAdd, Quick, lit, w.LitI64(KindI32, 1), Location{})
			results[i] = int(sum.(*Literal).Value.AsI64())
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, i+1, r)
	}
}
