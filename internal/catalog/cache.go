package catalog

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
)

const defaultCacheSize = 512

// Cache fronts the immutable catalog lookups hit on every task completion. Only hits are cached;
// a miss always goes back to the store.
type Cache struct {
	store      storage.Store
	challenges *lru.Cache
	badges     *lru.Cache
}

func NewCache(store storage.Store, size int) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	challenges, _ := lru.New(size)
	badges, _ := lru.New(size)

	return &Cache{
		store:      store,
		challenges: challenges,
		badges:     badges,
	}
}

// Challenge returns a copy so callers never mutate a cached value.
func (c *Cache) Challenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	if v, ok := c.challenges.Get(id); ok {
		return v.(*challenge.Challenge).Clone(), nil
	}

	ch, err := c.store.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	c.challenges.Add(id, ch.Clone())
	return ch, nil
}

func badgeKey(category string, days int) string {
	return fmt.Sprintf("%s|%d", category, days)
}

func (c *Cache) BadgeFor(ctx context.Context, category string, days int) (*badge.Badge, error) {
	key := badgeKey(category, days)
	if v, ok := c.badges.Get(key); ok {
		cp := *v.(*badge.Badge)
		return &cp, nil
	}

	b, err := c.store.FindBadge(ctx, category, days)
	if err != nil {
		return nil, err
	}
	stored := *b
	c.badges.Add(key, &stored)
	return b, nil
}

func (c *Cache) Len() int {
	return c.challenges.Len() + c.badges.Len()
}

func (c *Cache) Purge() {
	c.challenges.Purge()
	c.badges.Purge()
}
