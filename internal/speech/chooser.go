// Package speech renders turn prompts and reminder texts in Brazilian
// Portuguese.
package speech

import (
	"math/rand"
	"sync"
)

// Chooser picks among n canned phrasings.
type Chooser interface {
	Intn(n int) int
}

type randChooser struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandChooser returns a chooser backed by a seeded pseudo-random source.
// It is safe for concurrent use.
func NewRandChooser(seed int64) Chooser {
	return &randChooser{r: rand.New(rand.NewSource(seed))}
}

func (c *randChooser) Intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.Intn(n)
}

// Fixed always picks the same phrasing index, wrapped to the option count.
type Fixed int

func (f Fixed) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(f) % n
}
