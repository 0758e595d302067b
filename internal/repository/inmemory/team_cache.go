package inmemory

import (
	"sync"
	"time"

	teamdomain "hatim-app-go/internal/domain/team"
)

type InMemoryTeamCache struct {
	mu    sync.RWMutex
	items map[string]teamItem
}

type teamItem struct {
	value     teamdomain.TeamView
	expiresAt time.Time
}

func NewInMemoryTeamCache() *InMemoryTeamCache {
	return &InMemoryTeamCache{
		items: make(map[string]teamItem),
	}
}

func (c *InMemoryTeamCache) GetByTeamID(teamID string) (*teamdomain.TeamView, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[teamID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[teamID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, teamID)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := cloneTeamView(item.value)
	return &value, true
}

func (c *InMemoryTeamCache) SetByTeamID(teamID string, view *teamdomain.TeamView, ttl time.Duration) {
	if view == nil || ttl <= 0 {
		c.DeleteByTeamID(teamID)
		return
	}

	c.mu.Lock()
	c.items[teamID] = teamItem{
		value:     cloneTeamView(*view),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryTeamCache) DeleteByTeamID(teamID string) {
	c.mu.Lock()
	delete(c.items, teamID)
	c.mu.Unlock()
}

func (c *InMemoryTeamCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]teamItem)
	c.mu.Unlock()
}

func cloneTeamView(view teamdomain.TeamView) teamdomain.TeamView {
	cloned := view
	cloned.Members = append(make([]string, 0, len(view.Members)), view.Members...)
	cloned.PendingMembers = append(make([]string, 0, len(view.PendingMembers)), view.PendingMembers...)
	return cloned
}
