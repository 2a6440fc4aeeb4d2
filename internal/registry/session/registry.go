package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mailveil/internal/credential"
	"mailveil/internal/domain"
)

// Registry enforces the session rules over a State owned by the caller. It
// is not safe for concurrent use on the same State; the broker serializes
// access.
type Registry struct {
	gen      domain.CredentialGenerator
	now      func() time.Time
	idLength int
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the creation-timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDLength sets the generated identifier length.
func WithIDLength(n int) Option {
	return func(r *Registry) { r.idLength = n }
}

// New returns a registry generating session ids with gen.
func New(gen domain.CredentialGenerator, opts ...Option) *Registry {
	r := &Registry{
		gen:      gen,
		now:      time.Now,
		idLength: credential.DefaultIDLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create trims site and prepends a new session to st. A non-empty aliasID
// that resolves against st snapshots the alias address into AliasLocal; one
// that does not resolve degrades the session to ephemeral instead of
// failing the operation.
func (r *Registry) Create(st *domain.State, site string, aliasID domain.AliasID) (domain.Session, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return domain.Session{}, fmt.Errorf("%w: site is empty", domain.ErrValidation)
	}

	id, err := r.gen.ID(r.idLength)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	sess := domain.Session{
		ID:         domain.SessionID(id),
		Site:       site,
		AliasLocal: domain.EphemeralLocal,
		Created:    r.now().UTC(),
	}
	if aliasID != "" {
		if a, ok := st.FindAlias(aliasID); ok {
			sess.AliasID = aliasID
			sess.AliasLocal = a.Local()
		}
	}
	st.Sessions = append([]domain.Session{sess}, st.Sessions...)
	return sess, nil
}

// Destroy hard-deletes the session. Destroying an unknown id returns
// ErrNotFound, so a second destroy of the same session fails cleanly.
func (r *Registry) Destroy(st *domain.State, id domain.SessionID) error {
	for i, sess := range st.Sessions {
		if sess.ID == id {
			st.Sessions = append(st.Sessions[:i], st.Sessions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
}

// List returns the sessions newest-first.
func (r *Registry) List(st *domain.State) []domain.Session {
	return append([]domain.Session(nil), st.Sessions...)
}

// Open issues an opaque token for the session. Nothing is launched here; a
// real deployment exchanges the token for an isolated browsing context or
// proxy route.
func (r *Registry) Open(st *domain.State, id domain.SessionID) (domain.OpenToken, error) {
	sess, ok := st.FindSession(id)
	if !ok {
		return domain.OpenToken{}, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	return domain.OpenToken{
		Token:     uuid.NewString(),
		SessionID: sess.ID,
		Site:      sess.Site,
		IssuedAt:  r.now().UTC(),
	}, nil
}
