package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 共享加载的默认超时，不跟随首个请求的取消
const defaultLoadTimeout = 5 * time.Second

var errStale = errors.New("cache: generation moved during load")

// Cache 基于 redis 的读穿缓存；nil *Cache 直接走 load
type Cache struct {
	RDB    *redis.Client
	Prefix string
	// LoadTimeout 限制 singleflight 共享加载的时长，<=0 用默认值
	LoadTimeout time.Duration
	log         *zap.Logger
	sf          singleflight.Group
}

func New(addr, pass string, db int, prefix string, l *zap.Logger) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix, l)
}

func NewFromClient(rdb *redis.Client, prefix string, l *zap.Logger) *Cache {
	if l == nil {
		l = zap.NewNop()
	}
	return &Cache{RDB: rdb, Prefix: prefix, log: l}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

// 每个缓存键对应一个代数键，Invalidate 时自增
func genKey(full string) string { return full + ":gen" }

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

// GetOrLoad 命中直接返回；未命中时同一个 key 只加载一次。
// redis 出错时降级为直接 load。加载期间若发生失效，结果照常返回但不回写。
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	full := c.key(key)
	b, err := c.RDB.Get(ctx, full).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("cache get failed", zap.String("key", full), zap.Error(err))
	}

	ch := c.sf.DoChan(full, func() (any, error) {
		timeout := c.LoadTimeout
		if timeout <= 0 {
			timeout = defaultLoadTimeout
		}
		// 等待者共享这次加载，不能被首个调用方的取消拖垮
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		gen, genErr := c.generation(lctx, full)
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		if genErr != nil {
			c.log.Warn("cache generation read failed", zap.String("key", full), zap.Error(genErr))
			return b, nil
		}
		c.storeIfCurrent(lctx, full, gen, b, ttl)
		return b, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) generation(ctx context.Context, full string) (int64, error) {
	n, err := c.RDB.Get(ctx, genKey(full)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// storeIfCurrent 在 WATCH 代数键的事务里写入；代数变化则放弃
func (c *Cache) storeIfCurrent(ctx context.Context, full string, gen int64, b []byte, ttl time.Duration) {
	gk := genKey(full)
	err := c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, full, b, ttl)
			return nil
		})
		return err
	}, gk)
	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("cache set skipped, invalidated during load", zap.String("key", full))
	default:
		c.log.Warn("cache set failed", zap.String("key", full), zap.Error(err))
	}
}

// Invalidate 删除 keys 并推进代数，正在进行的加载不会再回写旧值
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			full := c.key(k)
			p.Incr(ctx, genKey(full))
			p.Del(ctx, full)
		}
		return nil
	})
	for _, k := range keys {
		c.sf.Forget(c.key(k))
	}
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}
