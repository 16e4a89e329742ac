// Package cache provides a generic key-value cache with TTL support and
// two backends: in-process memory and Redis.
//
// Herald uses it as a read-through cache in front of the template store:
//
//	c := cache.NewMemory[template.Template](cache.WithDefaultTTL(5 * time.Minute))
//	defer c.Close()
//
//	tmpl, err := cache.GetOrSet(ctx, c, id.String(), func(ctx context.Context) (template.Template, time.Duration, error) {
//	    t, err := store.GetByID(ctx, id)
//	    return t, 0, err
//	})
//
// GetOrSet deduplicates concurrent misses for the same key with
// singleflight, so a hot template is loaded from the store once.
//
// TTL semantics for Set: positive expires after the duration, zero uses the
// backend's default TTL, negative never expires.
package cache
