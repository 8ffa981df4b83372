package access

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core"
)

// DefaultKey is the store key holding the current role.
const DefaultKey = "userRole"

type (
	// Controller holds the current Role of a session and persists it in a Store.
	// The persisted role is read once, by NewController; afterwards only SetRole and Logout change the state.
	Controller struct {
		store   Store
		logger  core.Logger
		key     string
		timeout time.Duration

		mu   sync.RWMutex
		role Role

		writeMu sync.Mutex // serializes store writes in SetRole order

		loadErr error // set when the initial store read failed
	}

	Option func(*Controller)
)

// WithKey sets the store key holding the role.
func WithKey(key string) Option {
	return func(c *Controller) { c.key = key }
}

// WithTimeout bounds every store operation.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// NewController returns a Controller initialized from the role persisted in store.
// A missing, unreadable or unknown value leaves the controller with None.
func NewController(ctx context.Context, store Store, logger core.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		logger:  logger,
		key:     DefaultKey,
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.role, c.loadErr = c.load(ctx)
	return c
}

// load returns the persisted role, and an error only when the store could not be read.
func (c *Controller) load(ctx context.Context) (Role, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	val, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return None, nil
		}
		c.logger.Warn(fmt.Sprintf("access: reading role %q", c.key), err)
		return None, errors.Wrap(err, "reading role")
	}
	role, err := ParseRole(val)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("access: discarding stored role %q", c.key), err)
		return None, nil
	}
	return role, nil
}

// Key returns the store key holding the role.
func (c *Controller) Key() string { return c.key }

// Role returns the current role. It never touches the store.
func (c *Controller) Role() Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

// SetRole makes role current and persists it; None deletes the persisted entry.
// Store failures are logged: the in-memory change applies regardless.
func (c *Controller) SetRole(ctx context.Context, role Role) {
	if role.IsNone() {
		role = None
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.role = role
	c.mu.Unlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var err error
	if role == None {
		err = c.store.Delete(ctx, c.key)
	} else {
		err = c.store.Set(ctx, c.key, role.String())
	}
	if err != nil {
		c.logger.Error(fmt.Sprintf("access: persisting role %q", c.key), errors.Wrap(err, "persisting role"), role)
	}
}

// Logout clears the current role. Calling it repeatedly is harmless.
func (c *Controller) Logout(ctx context.Context) {
	c.SetRole(ctx, None)
}

// CanAccess reports whether the current role may open res.
func (c *Controller) CanAccess(res Resource) bool {
	return res.Allows(c.Role())
}

func (c *Controller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
