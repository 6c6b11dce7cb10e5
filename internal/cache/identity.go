package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"clienthub.app/hub/internal/domain"
)

const keyPrefix = "clienthub:identity:"

// ErrStaleIdentity is returned by Set when the profile was invalidated after
// the caller read its generation.
var ErrStaleIdentity = errors.New("identity invalidated while resolving")

// IdentityCache keeps resolved identities keyed by session. Entries for one
// profile can be dropped together when its role or scope changes.
//
// Every profile carries a generation counter that InvalidateProfile bumps.
// Resolvers read it before loading the profile and hand it to Set, so an
// identity built from data older than the last invalidation is never stored.
type IdentityCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, sessionID int64) (*domain.Identity, error)
	Generation(ctx context.Context, profileID int64) (int64, error)
	Set(ctx context.Context, identity domain.Identity, generation int64, ttl time.Duration) error
	InvalidateSession(ctx context.Context, sessionID int64) error
	InvalidateProfile(ctx context.Context, profileID int64) error
}

type redisIdentityCache struct {
	client *redis.Client
	// indexTTL bounds the per-profile session index; it must outlive any entry.
	indexTTL time.Duration
}

func NewRedisIdentityCache(client *redis.Client, maxTTL time.Duration) IdentityCache {
	return &redisIdentityCache{client: client, indexTTL: maxTTL}
}

func sessionKey(sessionID int64) string {
	return keyPrefix + "session:" + strconv.FormatInt(sessionID, 10)
}

func profileKey(profileID int64) string {
	return keyPrefix + "profile:" + strconv.FormatInt(profileID, 10)
}

func generationKey(profileID int64) string {
	return keyPrefix + "gen:" + strconv.FormatInt(profileID, 10)
}

func (c *redisIdentityCache) Get(ctx context.Context, sessionID int64) (*domain.Identity, error) {
	raw, err := c.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cached identity: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, sessionKey(sessionID)).Err()
		return nil, nil
	}
	return &identity, nil
}

// Generation returns 0 for a profile that was never invalidated.
func (c *redisIdentityCache) Generation(ctx context.Context, profileID int64) (int64, error) {
	return readGeneration(ctx, c.client, profileID)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, g getter, profileID int64) (int64, error) {
	gen, err := g.Get(ctx, generationKey(profileID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading identity generation: %w", err)
	}
	return gen, nil
}

func (c *redisIdentityCache) Set(ctx context.Context, identity domain.Identity, generation int64, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}

	indexTTL := c.indexTTL
	if indexTTL < ttl {
		indexTTL = ttl
	}

	profileID := identity.Profile.ID
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, profileID)
		if err != nil {
			return err
		}
		if current != generation {
			return ErrStaleIdentity
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey(identity.SessionID), raw, ttl)
			pipe.SAdd(ctx, profileKey(profileID), identity.SessionID)
			pipe.Expire(ctx, profileKey(profileID), indexTTL)
			return nil
		})
		return err
	}, generationKey(profileID))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleIdentity), errors.Is(err, redis.TxFailedErr):
		return ErrStaleIdentity
	default:
		return fmt.Errorf("caching identity: %w", err)
	}
}

func (c *redisIdentityCache) InvalidateSession(ctx context.Context, sessionID int64) error {
	if err := c.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("invalidating session identity: %w", err)
	}
	return nil
}

func (c *redisIdentityCache) InvalidateProfile(ctx context.Context, profileID int64) error {
	// Bump first so an in-flight resolve cannot store what is deleted below.
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(profileID))
		if c.indexTTL > 0 {
			pipe.Expire(ctx, generationKey(profileID), c.indexTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bumping identity generation: %w", err)
	}

	members, err := c.client.SMembers(ctx, profileKey(profileID)).Result()
	if err != nil {
		return fmt.Errorf("listing profile sessions: %w", err)
	}

	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		sessionID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, profileKey(profileID))

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidating profile identities: %w", err)
	}
	return nil
}
