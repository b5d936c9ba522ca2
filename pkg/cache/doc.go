// Package cache provides a generic, thread-safe LRU cache with optional
// expiry. The booking client uses it to keep the last fetched snapshot of
// each data area in memory.
//
//	c := cache.NewLRUCache[string, []byte](128, cache.WithTTL(5*time.Minute))
//	c.Put("u-1:reservations", payload)
//	if v, ok := c.Get("u-1:reservations"); ok {
//	    render(v)
//	}
package cache
