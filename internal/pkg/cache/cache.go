package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache stores serialized GET responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// Models whose writes clear the response cache.
const (
	ModelEmployee   = "Employee"
	ModelDepartment = "Department"
	ModelTask       = "Task"
	ModelTaskFile   = "TaskFile"
	ModelUser       = "User"
	ModelPosition   = "EmployeePosition"
	ModelCompany    = "Company"
)

// Invalidator is called by services after a committed write.
type Invalidator interface {
	Invalidate(ctx context.Context, model string)
}

type invalidator struct {
	cache Cache
}

func NewInvalidator(c Cache) Invalidator {
	return &invalidator{cache: c}
}

// Invalidate clears the whole cache. Failures are logged and swallowed.
func (i *invalidator) Invalidate(ctx context.Context, model string) {
	if err := i.cache.Clear(ctx); err != nil {
		slog.Error("cache clear failed", "model", model, "error", err)
		return
	}
	slog.Info("cache cleared", "model", model)
}

// Noop is an Invalidator that does nothing.
type Noop struct{}

func (Noop) Invalidate(context.Context, string) {}
