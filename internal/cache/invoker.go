package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"mcpserver/internal/mcp"
)

// KeyPrefix namespaces every result cache key.
const KeyPrefix = "mcp:result:"

// LookupRecorder counts cache hits, misses and errors.
type LookupRecorder interface {
	ObserveCacheLookup(result string)
}

// Invoker serves results of pure tools from a Store and falls through to the
// wrapped invoker otherwise. Cache failures never fail a call; only
// successful results are stored.
type Invoker struct {
	next     mcp.Invoker
	registry *mcp.Registry
	store    Store
	ttl      time.Duration
	recorder LookupRecorder
	logger   *slog.Logger
}

// NewInvoker wraps next with a result cache. recorder may be nil.
func NewInvoker(next mcp.Invoker, registry *mcp.Registry, store Store, ttl time.Duration, recorder LookupRecorder, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		next:     next,
		registry: registry,
		store:    store,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger.With("component", "result_cache"),
	}
}

// InvokeTool implements mcp.Invoker.
func (c *Invoker) InvokeTool(ctx context.Context, toolName string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	spec, ok := c.registry.Find(toolName)
	if !ok || !spec.Pure {
		return c.next.InvokeTool(ctx, toolName, args)
	}

	key, err := Key(toolName, args)
	if err != nil {
		// Let the invoker report unrenderable arguments.
		return c.next.InvokeTool(ctx, toolName, args)
	}

	if result := c.lookup(ctx, key); result != nil {
		return result, nil
	}

	result, err := c.next.InvokeTool(ctx, toolName, args)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, result)
	return result, nil
}

func (c *Invoker) lookup(ctx context.Context, key string) *mcp.CallToolResult {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache_get_failed", "cache_key", key, "error", err)
		c.observe("error")
		return nil
	}
	if !found {
		c.observe("miss")
		return nil
	}

	var result mcp.CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil || len(result.Content) == 0 {
		c.logger.WarnContext(ctx, "cache_entry_corrupt", "cache_key", key, "error", err)
		c.observe("error")
		return nil
	}
	c.observe("hit")
	return &result
}

func (c *Invoker) save(ctx context.Context, key string, result *mcp.CallToolResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.WarnContext(ctx, "cache_encode_failed", "cache_key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "cache_set_failed", "cache_key", key, "error", err)
	}
}

func (c *Invoker) observe(result string) {
	if c.recorder != nil {
		c.recorder.ObserveCacheLookup(result)
	}
}

// Key derives the cache key for a tool call. encoding/json sorts map keys, so
// equal argument objects hash the same.
func Key(toolName string, args map[string]interface{}) (string, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode arguments: %w", err)
	}
	return fmt.Sprintf("%s%s:%016x", KeyPrefix, toolName, xxhash.Sum64(raw)), nil
}
