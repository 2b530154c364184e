// Package session keeps interactive view sessions: a layout, the canvas it
// is shown on and the current viewport transform.
//
// A session is created from a [graph.Layout] and then driven by
// [Command] values (wheel, pan, pinch, zoom, reset, center, fit). Every
// command replays on a fresh [viewport.Controller] seeded with the stored
// state, so sessions survive restarts and can move between server
// instances.
//
// Storage backends implement [Store]:
//   - [MemoryStore]: in-process map for tests and single-instance servers
//   - [FileStore]: one JSON file per session for the CLI
//   - [RedisStore]: shared storage with native key expiry
//   - [MongoStore]: document storage with a TTL index
//
// # Usage
//
//	mgr := session.NewManager(session.NewMemoryStore())
//	sess, err := mgr.Create(ctx, layout, session.CreateOptions{
//	    Canvas: geom.Size{Width: 1200, Height: 800},
//	})
//	sess, changed, err := mgr.Apply(ctx, sess.ID, session.Command{Type: session.CmdZoomIn})
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultPadding is the fit padding used when a session sets none.
const DefaultPadding = 40.0

// Session is one interactive view of a layout.
type Session struct {
	ID        string          `json:"id" bson:"_id"`
	Layout    graph.Layout    `json:"layout" bson:"layout"`
	Canvas    geom.Size       `json:"canvas" bson:"canvas"`
	Padding   float64         `json:"padding" bson:"padding"`
	Limits    viewport.Config `json:"limits" bson:"limits"`
	Viewport  viewport.State  `json:"viewport" bson:"viewport"`
	Selected  string          `json:"selected,omitempty" bson:"selected,omitempty"`
	Version   int             `json:"version" bson:"version"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session lifetime and bumps its version.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
	s.Version++
}

// Controller returns a viewport controller positioned at the stored state.
func (s *Session) Controller(opts ...viewport.Option) *viewport.Controller {
	opts = append([]viewport.Option{
		viewport.WithConfig(s.Limits),
		viewport.WithState(s.Viewport),
	}, opts...)
	return viewport.NewController(s.Canvas, opts...)
}

// Node returns the layout node with the given id.
func (s *Session) Node(id string) (graph.Node, bool) {
	for _, n := range s.Layout.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return graph.Node{}, false
}

// Store is the interface for session storage backends.
type Store interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// CreateOptions describe the initial view of a new session.
type CreateOptions struct {
	Canvas  geom.Size       `json:"canvas"`
	Padding float64         `json:"padding,omitempty"`
	Limits  viewport.Config `json:"limits,omitempty"`
	State   *viewport.State `json:"viewport,omitempty"`
	TTL     time.Duration   `json:"-"`
}

// New creates a session for a layout. Without an explicit State the view is
// fitted to the layout bounds.
func New(l graph.Layout, opts CreateOptions) (*Session, error) {
	if !geom.Finite(opts.Canvas.Width, opts.Canvas.Height) || opts.Canvas.Width <= 0 || opts.Canvas.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive")
	}
	if opts.Padding < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
	}
	if opts.Padding == 0 {
		opts.Padding = DefaultPadding
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Layout:    l,
		Canvas:    opts.Canvas,
		Padding:   opts.Padding,
		Limits:    opts.Limits.WithDefaults(),
		Viewport:  viewport.Identity,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(opts.TTL),
	}

	ctrl := sess.Controller()
	if opts.State != nil {
		if !opts.State.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid viewport state")
		}
		ctrl.Restore(*opts.State)
	} else if !l.Empty() {
		ctrl.FitToScreen(l.Bounds, sess.Padding)
	}
	sess.Viewport = ctrl.State()
	return sess, nil
}

// ValidateID checks that id is a session id issued by New.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid session id %q", id)
	}
	return nil
}
