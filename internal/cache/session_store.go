package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RedisSessionStore maps live session ids to user ids. Deleting the key
// revokes the session even though its cookie is still signed.
type RedisSessionStore struct {
	client *redisv9.Client
}

func NewRedisSessionStore(client *redisv9.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(sessionID), strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis save session failed: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sessionID string) (uint, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redisv9.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get session failed: %w", err)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse session user id failed: %w", err)
	}
	return uint(userID), true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "cafehub:session:" + sessionID
}

// MemorySessionStore is the single-process fallback used when Redis is not
// configured. Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sessionID] = memorySession{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Lookup(_ context.Context, sessionID string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, false, nil
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, false, nil
	}
	return sess.userID, true, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
