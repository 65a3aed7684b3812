package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/auradesk/service-desk/internal/domain"
)

const ticketCacheTTL = time.Hour

// TicketCache memoizes ticket lookups in Redis using typed JSON
// round-tripping. It is opportunistic: misses and Redis errors are
// indistinguishable to callers, and correctness never depends on it.
type TicketCache struct {
	client *redis.Client
}

// NewTicketCache wraps the given Redis client. A nil client yields a
// no-op cache.
func NewTicketCache(client *redis.Client) *TicketCache {
	return &TicketCache{client: client}
}

// Get returns the cached ticket or (nil, false) on miss.
func (c *TicketCache) Get(ctx context.Context, id string) (*domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, ticketKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(payload, &ticket); err != nil {
		// A corrupt entry is dropped rather than surfaced.
		_ = c.client.Del(ctx, ticketKey(id)).Err()
		return nil, false
	}
	return &ticket, true
}

// Set stores the ticket for the cache TTL.
func (c *TicketCache) Set(ctx context.Context, ticket *domain.Ticket) error {
	if c == nil || c.client == nil || ticket == nil {
		return nil
	}
	payload, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ticketKey(ticket.ID), payload, ticketCacheTTL).Err()
}

// Delete invalidates the cached ticket.
func (c *TicketCache) Delete(ctx context.Context, id string) error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Del(ctx, ticketKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func ticketKey(id string) string {
	return "ticket:" + id
}
