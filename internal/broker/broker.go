package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"mailveil/internal/domain"
	aliasreg "mailveil/internal/registry/alias"
	sessionreg "mailveil/internal/registry/session"
	"mailveil/internal/store"
)

// DefaultCheckTimeout bounds a single breach lookup so a hung external
// service cannot stall the caller indefinitely.
const DefaultCheckTimeout = 10 * time.Second

// Broker coordinates the registries, the state store, and the breach
// checker behind one boundary. Every mutating operation persists exactly
// once; reads return copies of a consistent snapshot.
type Broker struct {
	mu    sync.RWMutex
	state *domain.State

	aliases  *aliasreg.Registry
	sessions *sessionreg.Registry
	store    domain.StateStore
	gen      domain.CredentialGenerator
	checker  domain.BreachChecker

	log          *slog.Logger
	checkTimeout time.Duration
}

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Broker) { b.log = log }
}

// WithCheckTimeout bounds breach lookups.
func WithCheckTimeout(d time.Duration) Option {
	return func(b *Broker) { b.checkTimeout = d }
}

// WithAliasRegistry replaces the default alias registry.
func WithAliasRegistry(r *aliasreg.Registry) Option {
	return func(b *Broker) { b.aliases = r }
}

// WithSessionRegistry replaces the default session registry.
func WithSessionRegistry(r *sessionreg.Registry) Option {
	return func(b *Broker) { b.sessions = r }
}

// New builds a broker and loads the last snapshot from st. A corrupt
// snapshot degrades to the empty state with a warning; only a hard store
// failure is returned.
func New(ctx context.Context, st domain.StateStore, gen domain.CredentialGenerator, checker domain.BreachChecker, opts ...Option) (*Broker, error) {
	b := &Broker{
		store:        st,
		gen:          gen,
		checker:      checker,
		log:          slog.Default(),
		checkTimeout: DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.aliases == nil {
		b.aliases = aliasreg.New(gen)
	}
	if b.sessions == nil {
		b.sessions = sessionreg.New(gen)
	}

	state, err := st.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return nil, fmt.Errorf("load state: %w", err)
		}
		b.log.Warn("state snapshot unreadable, starting from empty state", "err", err)
	}
	b.state = state
	return b, nil
}

// commit persists next and installs it as the live state. On a store
// failure the live state is untouched and the operation reports failure.
func (b *Broker) commit(ctx context.Context, next *domain.State) error {
	if err := b.store.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	b.state = next
	return nil
}

// CreateAlias normalizes the inputs, mints credentials, and persists the
// new alias.
func (b *Broker) CreateAlias(ctx context.Context, name, domainPart, group string) (domain.Alias, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.state.Clone()
	a, err := b.aliases.Create(next, name, domainPart, group)
	if err != nil {
		return domain.Alias{}, err
	}
	if err := b.commit(ctx, next); err != nil {
		return domain.Alias{}, err
	}
	b.log.Info("alias created", "id", a.ID, "local", a.Local(), "group", a.Group)
	return a, nil
}

// GetAlias returns one alias by id.
func (b *Broker) GetAlias(_ context.Context, id domain.AliasID) (domain.Alias, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.aliases.Get(b.state, id)
}

// ListAliases returns all aliases newest-first.
func (b *Broker) ListAliases(_ context.Context) []domain.Alias {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.aliases.List(b.state)
}

// DeleteAlias removes the alias; sessions that referenced it keep their
// address snapshot with the reference cleared.
func (b *Broker) DeleteAlias(ctx context.Context, id domain.AliasID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.state.Clone()
	if err := b.aliases.Delete(next, id); err != nil {
		return err
	}
	if err := b.commit(ctx, next); err != nil {
		return err
	}
	b.log.Info("alias deleted", "id", id)
	return nil
}

// CreateSession records a new virtual session against site, snapshotting
// the alias address when aliasID resolves.
func (b *Broker) CreateSession(ctx context.Context, site string, aliasID domain.AliasID) (domain.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.state.Clone()
	sess, err := b.sessions.Create(next, site, aliasID)
	if err != nil {
		return domain.Session{}, err
	}
	if err := b.commit(ctx, next); err != nil {
		return domain.Session{}, err
	}
	b.log.Info("session created", "id", sess.ID, "site", sess.Site, "alias", sess.AliasLocal)
	return sess, nil
}

// ListSessions returns all sessions newest-first.
func (b *Broker) ListSessions(_ context.Context) []domain.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessions.List(b.state)
}

// DestroySession hard-deletes the session.
func (b *Broker) DestroySession(ctx context.Context, id domain.SessionID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.state.Clone()
	if err := b.sessions.Destroy(next, id); err != nil {
		return err
	}
	if err := b.commit(ctx, next); err != nil {
		return err
	}
	b.log.Info("session destroyed", "id", id)
	return nil
}

// OpenSession issues an opaque token for the session without mutating
// state.
func (b *Broker) OpenSession(_ context.Context, id domain.SessionID) (domain.OpenToken, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessions.Open(b.state, id)
}

// GeneratePassword mints a standalone password; nothing is stored.
func (b *Broker) GeneratePassword(_ context.Context, length int) (string, error) {
	return b.gen.Password(length)
}

// CheckEmailBreach asks the external checker about email. It never holds
// the state lock: a slow or hung lookup must not stall alias and session
// operations. A checker failure returns a report with status unknown plus
// the transient error, so unknown is never mistaken for clear.
func (b *Broker) CheckEmailBreach(ctx context.Context, email string) (domain.BreachReport, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.BreachReport{}, fmt.Errorf("%w: email is empty", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, b.checkTimeout)
	defer cancel()

	report, err := b.checker.Check(ctx, email)
	if err != nil {
		b.log.Warn("breach check failed", "err", err)
		if !errors.Is(err, domain.ErrTransient) {
			err = fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
		return domain.BreachReport{Email: email, Status: domain.BreachUnknown}, err
	}
	return report, nil
}
