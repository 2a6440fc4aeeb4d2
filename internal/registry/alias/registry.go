package alias

import (
	"fmt"
	"strings"
	"time"

	"mailveil/internal/credential"
	"mailveil/internal/domain"
)

// Fallback parts applied when normalization leaves a field empty.
const (
	DefaultName   = "user"
	DefaultDomain = "mailveil.example"
)

// Registry enforces the alias rules over a State owned by the caller. It is
// not safe for concurrent use on the same State; the broker serializes
// access.
type Registry struct {
	gen            domain.CredentialGenerator
	now            func() time.Time
	passwordLength int
	idLength       int
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the creation-timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithPasswordLength sets the generated password length.
func WithPasswordLength(n int) Option {
	return func(r *Registry) { r.passwordLength = n }
}

// WithIDLength sets the generated identifier length.
func WithIDLength(n int) Option {
	return func(r *Registry) { r.idLength = n }
}

// New returns a registry generating credentials with gen.
func New(gen domain.CredentialGenerator, opts ...Option) *Registry {
	r := &Registry{
		gen:            gen,
		now:            time.Now,
		passwordLength: credential.DefaultPasswordLength,
		idLength:       credential.DefaultIDLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create normalizes the inputs, generates id and password, and prepends the
// new alias to st. Empty name and domain fall back to DefaultName and
// DefaultDomain, so the validation failure is defensive only.
func (r *Registry) Create(st *domain.State, name, domainPart, group string) (domain.Alias, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	domainPart = strings.TrimSpace(domainPart)
	if domainPart == "" {
		domainPart = DefaultDomain
	}
	if name == "" || domainPart == "" {
		return domain.Alias{}, fmt.Errorf("%w: alias local part is empty", domain.ErrValidation)
	}

	id, err := r.gen.ID(r.idLength)
	if err != nil {
		return domain.Alias{}, fmt.Errorf("generate alias id: %w", err)
	}
	password, err := r.gen.Password(r.passwordLength)
	if err != nil {
		return domain.Alias{}, fmt.Errorf("generate alias password: %w", err)
	}

	a := domain.Alias{
		ID:       domain.AliasID(id),
		Name:     name,
		Domain:   domainPart,
		Group:    strings.TrimSpace(group),
		Password: password,
		Created:  r.now().UTC(),
	}
	st.Aliases = append([]domain.Alias{a}, st.Aliases...)
	return a, nil
}

// Get returns the alias with the given id.
func (r *Registry) Get(st *domain.State, id domain.AliasID) (domain.Alias, error) {
	if a, ok := st.FindAlias(id); ok {
		return a, nil
	}
	return domain.Alias{}, fmt.Errorf("%w: alias %q", domain.ErrNotFound, id)
}

// List returns the aliases newest-first.
func (r *Registry) List(st *domain.State) []domain.Alias {
	return append([]domain.Alias(nil), st.Aliases...)
}

// Delete removes the alias. Sessions referencing it keep their AliasLocal
// snapshot and have AliasID cleared, so they stay displayable after the
// alias is gone.
func (r *Registry) Delete(st *domain.State, id domain.AliasID) error {
	idx := -1
	for i, a := range st.Aliases {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: alias %q", domain.ErrNotFound, id)
	}
	st.Aliases = append(st.Aliases[:idx], st.Aliases[idx+1:]...)

	for i := range st.Sessions {
		if st.Sessions[i].AliasID == id {
			st.Sessions[i].AliasID = ""
		}
	}
	return nil
}
