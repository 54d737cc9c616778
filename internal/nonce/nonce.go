package nonce

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store tracks consumed nonce ids so each token authorizes exactly one
// checkout attempt.
type Store interface {
	// Consume marks the id as used and reports whether this was the first use.
	Consume(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

type redisStore struct {
	client *redis.Client
	prefix string
}

func (s *redisStore) Consume(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+":"+id, "1", ttl).Result()
}

type memoryStore struct {
	mu     sync.Mutex
	used   map[string]time.Time
	nextGC time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		used:   make(map[string]time.Time),
		nextGC: time.Now().Add(time.Minute),
	}
}

func (s *memoryStore) Consume(_ context.Context, id string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.used[id]; ok && exp.After(now) {
		return false, nil
	}

	s.used[id] = now.Add(ttl)
	if now.After(s.nextGC) {
		for k, exp := range s.used {
			if exp.Before(now) {
				delete(s.used, k)
			}
		}
		s.nextGC = now.Add(time.Minute)
	}

	return true, nil
}

// NewStore builds a Redis-backed store and falls back to in-memory when Redis
// is unreachable or unconfigured. The fallback is per-process: behind a load
// balancer without Redis, single use only holds per instance.
func NewStore(addr, pass string, db int) (Store, error) {
	if addr == "" {
		return newMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryStore(), err
	}

	return &redisStore{client: client, prefix: "nonce"}, nil
}

// Issuer mints and validates checkout form tokens. A token is a uuid and an
// expiry unix timestamp, signed with HMAC-SHA256. Validation consumes it.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	store  Store
}

func NewIssuer(secret string, ttl time.Duration, store Store) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
	}
}

// Issue mints a fresh token.
func (i *Issuer) Issue() string {
	payload := uuid.NewString() + "." + strconv.FormatInt(time.Now().Add(i.ttl).Unix(), 10)
	return payload + "." + i.sign(payload)
}

// Validate checks signature and expiry, then consumes the token. Any failure
// means the checkout must abort before creating records.
func (i *Issuer) Validate(ctx context.Context, token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	id, expStr, sig := parts[0], parts[1], parts[2]

	payload := id + "." + expStr
	if !hmac.Equal([]byte(sig), []byte(i.sign(payload))) {
		return false
	}

	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return false
	}

	first, err := i.store.Consume(ctx, id, time.Until(time.Unix(exp, 0)))
	if err != nil {
		// Store trouble must not lock donors out; signature and expiry
		// already held.
		return true
	}
	return first
}

func (i *Issuer) sign(payload string) string {
	mac := hmac.New(sha256.New, i.secret)
	fmt.Fprint(mac, payload)
	return hex.EncodeToString(mac.Sum(nil))
}
