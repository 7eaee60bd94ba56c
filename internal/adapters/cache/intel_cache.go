package cache

import (
	"time"

	"github.com/mikey/securelens/internal/core"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// IntelCache is a TTL cache of domain intelligence keyed by hostname
type IntelCache struct {
	entries *gocache.Cache
	logger  *zap.Logger
}

// NewIntelCache creates a cache whose entries live for ttl and are purged every cleanupFreq
func NewIntelCache(ttl, cleanupFreq time.Duration, logger *zap.Logger) *IntelCache {
	return &IntelCache{
		entries: gocache.New(ttl, cleanupFreq),
		logger:  logger,
	}
}

// Get returns the cached intel for host
func (c *IntelCache) Get(host string) (*core.DomainIntel, bool) {
	v, ok := c.entries.Get(host)
	if !ok {
		return nil, false
	}
	intel, ok := v.(*core.DomainIntel)
	return intel, ok
}

// Set stores intel for host with the default TTL
func (c *IntelCache) Set(host string, intel *core.DomainIntel) {
	c.entries.SetDefault(host, intel)
	c.logger.Debug("Domain intel cached", zap.String("host", host), zap.Int("entries", c.entries.ItemCount()))
}

// Flush drops every entry
func (c *IntelCache) Flush() {
	c.entries.Flush()
}
