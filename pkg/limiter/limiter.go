package limiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face rate limiter interface
// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// Limiter 令牌桶集合
type Limiter struct {
	mu             sync.RWMutex
	limiterBuckets map[string]*ratelimit.Bucket
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key 规则键
	Key string
	// FillInterval 间隔多久放入 Quantum 个令牌
	FillInterval time.Duration
	// Capacity 令牌桶容量
	Capacity int64
	// Quantum 每次放入的令牌数
	Quantum int64
}

func (l *Limiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bucket, ok := l.limiterBuckets[key]
	return bucket, ok
}

func (l *Limiter) addBuckets(rules ...BucketRule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rule := range rules {
		if _, ok := l.limiterBuckets[rule.Key]; !ok {
			l.limiterBuckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		}
	}
}
