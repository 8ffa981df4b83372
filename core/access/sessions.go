package access

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/studentcoin/core"
)

// DefaultMaxSessions is the number of device controllers kept in memory when none is configured.
const DefaultMaxSessions = 10000

var ErrInvalidDeviceID = errors.New("invalid device id")

// Sessions keeps one Controller per device, each persisting its role under "<prefix>:<deviceID>".
// At most maxSessions controllers are cached; the least recently used ones are dropped and
// reloaded from the store on their next lookup.
type Sessions struct {
	store   Store
	logger  core.Logger
	prefix  string
	timeout time.Duration

	ctrls *lru.Cache // deviceID -> *Controller
	loads singleflight.Group
}

func NewSessions(store Store, logger core.Logger, prefix string, timeout time.Duration, maxSessions int) *Sessions {
	if prefix == "" {
		prefix = DefaultKey
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	ctrls, _ := lru.New(maxSessions) // only fails on a non-positive size
	return &Sessions{
		store:   store,
		logger:  logger,
		prefix:  prefix,
		timeout: timeout,
		ctrls:   ctrls,
	}
}

// NewDeviceID returns a fresh device identifier.
func (s *Sessions) NewDeviceID() string {
	return uuid.New().String()
}

// Len returns the number of cached controllers.
func (s *Sessions) Len() int {
	return s.ctrls.Len()
}

// Get returns the Controller of deviceID, reading its persisted role on first use.
// Concurrent first lookups of a device share a single store read, which is not bound to ctx:
// when ctx is done Get returns its error while the read completes for later lookups.
func (s *Sessions) Get(ctx context.Context, deviceID string) (*Controller, error) {
	id, err := uuid.Parse(strings.TrimSpace(deviceID))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDeviceID, err.Error())
	}
	deviceID = id.String()

	if ctrl, ok := s.ctrls.Get(deviceID); ok {
		return ctrl.(*Controller), nil
	}

	ch := s.loads.DoChan(deviceID, func() (interface{}, error) {
		if ctrl, ok := s.ctrls.Get(deviceID); ok {
			return ctrl, nil
		}
		return s.load(deviceID), nil
	})
	select {
	case res := <-ch:
		return res.Val.(*Controller), nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "loading session")
	}
}

func (s *Sessions) load(deviceID string) *Controller {
	opts := []Option{WithKey(s.prefix + ":" + deviceID)}
	if s.timeout > 0 {
		opts = append(opts, WithTimeout(s.timeout))
	}
	ctrl := NewController(context.Background(), s.store, s.logger, opts...)

	// a failed read is retried by the next lookup rather than pinning None for the device
	if ctrl.loadErr == nil {
		s.ctrls.Add(deviceID, ctrl)
	}
	return ctrl
}
