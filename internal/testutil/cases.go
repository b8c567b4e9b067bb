package testutil

import (
	"fmt"
	"sync"
)

// CaseSequence hands out deterministic case UUIDs for tests.
//
// The n-th call to Next returns a version-4 shaped UUID whose last group is n
// in hex, so the same test run always produces the same ident strings and
// golden output stays byte-identical.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CaseSequence struct {
	mu  sync.Mutex
	seq int64
}

// NewCaseSequence creates a sequence starting at 0.
//
// The first call to Next() returns CaseUUID(1).
func NewCaseSequence() *CaseSequence {
	return &CaseSequence{}
}

// Next increments the sequence and returns the matching case UUID.
func (c *CaseSequence) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return CaseUUID(c.seq)
}

// Current returns the number of UUIDs handed out since the last Reset.
func (c *CaseSequence) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset restarts the sequence. After Reset(), Next() returns CaseUUID(1).
func (c *CaseSequence) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// CaseUUID returns the deterministic case UUID for n.
//
//	CaseUUID(1) == "00000000-0000-4000-8000-000000000001"
func CaseUUID(n int64) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012x", n)
}
