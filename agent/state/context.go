package state

import (
	"strings"
	"sync"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
)

// CareerContext is the per-session mutable record of the user's skills. It is
// owned by the session controller; tools and specialists only ever see
// immutable snapshots. The single sanctioned mutation is ReplaceSkills, which
// swaps the whole skill list atomically so an abandoned turn can never observe
// a half-applied update.
type CareerContext struct {
	mu     sync.RWMutex
	userID string
	skills []string
}

func NewCareerContext(userID string, skills []string) *CareerContext {
	return &CareerContext{
		userID: strings.TrimSpace(userID),
		skills: dedupeSkills(skills),
	}
}

func (c *CareerContext) UserID() string {
	return c.userID
}

// Skills returns a copy of the current skill list in insertion order.
func (c *CareerContext) Skills() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.skills...)
}

// ReplaceSkills swaps the entire skill list. Duplicates are suppressed
// case-insensitively, keeping the first spelling seen.
func (c *CareerContext) ReplaceSkills(skills []string) {
	next := dedupeSkills(skills)
	c.mu.Lock()
	c.skills = next
	c.mu.Unlock()
}

func (c *CareerContext) Snapshot() contractx.ContextSnapshot {
	return contractx.ContextSnapshot{
		UserID: c.userID,
		Skills: c.Skills(),
	}
}

func dedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
