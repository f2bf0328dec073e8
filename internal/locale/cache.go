package locale

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// TranslationCache memoizes resolved strings for one Table. It is created
// once at start-up and handed to the components that render text.
type TranslationCache struct {
	table  *Table
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[cacheKey]string
	missing map[string]struct{}
}

type cacheKey struct {
	lang string
	key  string
}

// NewTranslationCache constructs an empty cache over table.
func NewTranslationCache(table *Table, logger *zap.Logger) *TranslationCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranslationCache{
		table:   table,
		logger:  logger,
		entries: make(map[cacheKey]string),
		missing: make(map[string]struct{}),
	}
}

// Translate resolves key for lang with English and raw-key fallback.
func (c *TranslationCache) Translate(lang, key string) string {
	lookup := cacheKey{lang: Normalize(lang), key: key}
	c.mu.RLock()
	value, ok := c.entries[lookup]
	c.mu.RUnlock()
	if ok {
		return value
	}

	value = c.table.Lookup(lookup.lang, key)
	c.mu.Lock()
	c.entries[lookup] = value
	if value == key && !c.table.Has(DefaultLanguage, key) {
		if _, logged := c.missing[key]; !logged {
			c.missing[key] = struct{}{}
			c.logger.Warn("translation key missing", zap.String("key", key))
		}
	}
	c.mu.Unlock()
	return value
}

// Render translates key and substitutes {name} placeholders from vars.
func (c *TranslationCache) Render(lang, key string, vars map[string]string) string {
	text := c.Translate(lang, key)
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Len returns the number of memoized entries.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every memoized entry.
func (c *TranslationCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]string)
	c.missing = make(map[string]struct{})
	c.mu.Unlock()
}
