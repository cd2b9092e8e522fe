package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	ErrProfileNotFound = errors.New("career profile not found")
	ErrNilProfile      = errors.New("career profile is nil")
	ErrInvalidUser     = errors.New("user id is empty")
)

const (
	defaultStoreKeyPrefix = "careermate:profile:"
	defaultStoreTTL       = 30 * 24 * time.Hour
	maxResponseSizeBytes  = 2 << 20
)

// Profile is the persisted form of a CareerContext between sessions.
type Profile struct {
	UserID    string    `json:"user_id"`
	Skills    []string  `json:"skills,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewProfile(userID string, skills []string, now time.Time) *Profile {
	return &Profile{
		UserID:    strings.TrimSpace(userID),
		Skills:    dedupeSkills(skills),
		UpdatedAt: now.UTC(),
	}
}

func (p *Profile) Touch(now time.Time) {
	p.UpdatedAt = now.UTC()
}

// Store is the persistence contract used by the session controller.
type Store interface {
	Load(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, userID string) error
}

/* ------------------------------- Memory store ------------------------------ */

// MemoryStore keeps profiles in process memory. Default for the demo driver
// and tests; every session sharing the store sees its own profile entry only.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*Profile, error) {
	key := strings.TrimSpace(userID)
	if key == "" {
		return nil, ErrInvalidUser
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[key]
	if !ok {
		return nil, ErrProfileNotFound
	}
	clone := *p
	clone.Skills = append([]string(nil), p.Skills...)
	return &clone, nil
}

func (s *MemoryStore) Save(ctx context.Context, p *Profile) error {
	if p == nil {
		return ErrNilProfile
	}
	key := strings.TrimSpace(p.UserID)
	if key == "" {
		return ErrInvalidUser
	}
	clone := *p
	clone.Skills = append([]string(nil), p.Skills...)
	s.mu.Lock()
	s.profiles[key] = &clone
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	key := strings.TrimSpace(userID)
	if key == "" {
		return ErrInvalidUser
	}
	s.mu.Lock()
	delete(s.profiles, key)
	s.mu.Unlock()
	return nil
}

/* ---------------------------- Upstash Redis store --------------------------- */

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

type UpstashRedisConfig struct {
	URL   string `split_words:"true"`
	Token string `split_words:"true"`
}

// UpstashRedisStore persists profiles through the Upstash Redis REST API.
type UpstashRedisStore struct {
	baseURL    string
	token      string
	keyPrefix  string
	ttl        time.Duration
	httpClient *http.Client
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid upstash redis url: %w", err)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("upstash redis token is required")
	}

	s := &UpstashRedisStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		keyPrefix:  defaultStoreKeyPrefix,
		ttl:        defaultStoreTTL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (s *UpstashRedisStore) Load(ctx context.Context, userID string) (*Profile, error) {
	key, err := s.redisKey(userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.exec(ctx, []any{"GET", key})
	if err != nil {
		return nil, err
	}

	var payload *string
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return nil, fmt.Errorf("decode redis result: %w", err)
	}
	if payload == nil {
		return nil, ErrProfileNotFound
	}

	var profile Profile
	if err := json.Unmarshal([]byte(*payload), &profile); err != nil {
		return nil, fmt.Errorf("unmarshal career profile: %w", err)
	}
	return &profile, nil
}

func (s *UpstashRedisStore) Save(ctx context.Context, p *Profile) error {
	if p == nil {
		return ErrNilProfile
	}
	key, err := s.redisKey(p.UserID)
	if err != nil {
		return err
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	} else {
		p.UpdatedAt = p.UpdatedAt.UTC()
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal career profile: %w", err)
	}

	cmd := []any{"SET", key, string(payload)}
	if s.ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(s.ttl))
	}

	_, err = s.exec(ctx, cmd)
	return err
}

func (s *UpstashRedisStore) Delete(ctx context.Context, userID string) error {
	key, err := s.redisKey(userID)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, []any{"DEL", key})
	return err
}

func (s *UpstashRedisStore) redisKey(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidUser
	}
	prefix := s.keyPrefix
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultStoreKeyPrefix
	}
	return prefix + strings.TrimSpace(userID), nil
}

func (s *UpstashRedisStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if s == nil {
		return nil, errors.New("nil store")
	}
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
