package ratelimiter

import "time"

func (ms *MemoryStore) SetClock(now func() time.Time) { ms.now = now }

func (ms *MemoryStore) RemoveStale() { ms.removeStale() }
