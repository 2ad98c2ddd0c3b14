package fusion

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"stylist-ai/internal/domain"
)

// ConsensusCache guarda sets de consenso por hash de contenido de imagen.
// Las entradas no expiran solas: se invalidan cuando la imagen se reemplaza.
type ConsensusCache interface {
	Get(ctx context.Context, imageHash string) (domain.ConsensusFeatureSet, bool, error)
	Set(ctx context.Context, imageHash string, set domain.ConsensusFeatureSet) error
	Invalidate(ctx context.Context, imageHash string) error
}

type memoryConsensusCache struct {
	mu    sync.RWMutex
	items map[string]domain.ConsensusFeatureSet
}

// NewMemoryConsensusCache crea un cache en memoria, util para desarrollo y
// como fallback cuando redis no esta configurado.
func NewMemoryConsensusCache() ConsensusCache {
	return &memoryConsensusCache{
		items: make(map[string]domain.ConsensusFeatureSet),
	}
}

func (c *memoryConsensusCache) Get(_ context.Context, imageHash string) (domain.ConsensusFeatureSet, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.items[imageHash]
	return set, ok, nil
}

func (c *memoryConsensusCache) Set(_ context.Context, imageHash string, set domain.ConsensusFeatureSet) error {
	if imageHash == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[imageHash] = set
	return nil
}

func (c *memoryConsensusCache) Invalidate(_ context.Context, imageHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, imageHash)
	return nil
}

type redisConsensusCache struct {
	client *redis.Client
	prefix string
}

// NewRedisConsensusCache crea un cache respaldado en redis compartible entre
// instancias. Devuelve nil si el cliente es nil.
func NewRedisConsensusCache(client *redis.Client) ConsensusCache {
	if client == nil {
		return nil
	}
	return &redisConsensusCache{
		client: client,
		prefix: "fusion:consensus:",
	}
}

func (c *redisConsensusCache) Get(ctx context.Context, imageHash string) (domain.ConsensusFeatureSet, bool, error) {
	if imageHash == "" {
		return domain.ConsensusFeatureSet{}, false, nil
	}
	opCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(opCtx, c.prefix+imageHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ConsensusFeatureSet{}, false, nil
	}
	if err != nil {
		return domain.ConsensusFeatureSet{}, false, err
	}
	var set domain.ConsensusFeatureSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.ConsensusFeatureSet{}, false, err
	}
	return set, true, nil
}

func (c *redisConsensusCache) Set(ctx context.Context, imageHash string, set domain.ConsensusFeatureSet) error {
	if imageHash == "" {
		return nil
	}
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	// Sin TTL: la entrada vive hasta que la imagen se reemplace.
	return c.client.Set(opCtx, c.prefix+imageHash, raw, 0).Err()
}

func (c *redisConsensusCache) Invalidate(ctx context.Context, imageHash string) error {
	if imageHash == "" {
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Del(opCtx, c.prefix+imageHash).Err()
}
