package broker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailveil/internal/breach"
	"mailveil/internal/broker"
	"mailveil/internal/credential"
	"mailveil/internal/domain"
	"mailveil/internal/logging"
	"mailveil/internal/store"
)

// failingStore accepts the first n saves, then refuses everything.
type failingStore struct {
	mu      sync.Mutex
	inner   *store.Memory
	allowed int
}

func (s *failingStore) Load(ctx context.Context) (*domain.State, error) {
	return s.inner.Load(ctx)
}

func (s *failingStore) Save(ctx context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowed <= 0 {
		return errors.New("disk full")
	}
	s.allowed--
	return s.inner.Save(ctx, state)
}

// spyChecker records whether it was called.
type spyChecker struct {
	called bool
	report domain.BreachReport
	err    error
}

func (c *spyChecker) Check(_ context.Context, email string) (domain.BreachReport, error) {
	c.called = true
	c.report.Email = email
	return c.report, c.err
}

func newBroker(t *testing.T, checker domain.BreachChecker) *broker.Broker {
	t.Helper()
	if checker == nil {
		checker = breach.Disabled{}
	}
	b, err := broker.New(context.Background(), store.NewMemory(), credential.New(), checker,
		broker.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	return b
}

func TestAliasLifecycle_DenormalizedSessionSurvivesDeletion(t *testing.T) {
	b := newBroker(t, nil)
	ctx := context.Background()

	a, err := b.CreateAlias(ctx, "sales", "shop.test", "shopping")
	require.NoError(t, err)
	assert.Equal(t, "sales@shop.test", a.Local())
	assert.Len(t, a.Password, 16)

	aliases := b.ListAliases(ctx)
	require.NotEmpty(t, aliases)
	assert.Equal(t, a.ID, aliases[0].ID)

	sess, err := b.CreateSession(ctx, "shop.test", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "sales@shop.test", sess.AliasLocal)

	require.NoError(t, b.DeleteAlias(ctx, a.ID))

	sessions := b.ListSessions(ctx)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sales@shop.test", sessions[0].AliasLocal)
	assert.Empty(t, sessions[0].AliasID)

	_, err = b.GetAlias(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSession_NonexistentAliasIsEphemeral(t *testing.T) {
	b := newBroker(t, nil)

	sess, err := b.CreateSession(context.Background(), "x.test", "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, domain.EphemeralLocal, sess.AliasLocal)
	assert.Empty(t, sess.AliasID)
}

func TestDestroySession_SecondCallNotFound(t *testing.T) {
	b := newBroker(t, nil)
	ctx := context.Background()

	sess, err := b.CreateSession(ctx, "x.test", "")
	require.NoError(t, err)
	require.NoError(t, b.DestroySession(ctx, sess.ID))
	assert.ErrorIs(t, b.DestroySession(ctx, sess.ID), domain.ErrNotFound)
	assert.Empty(t, b.ListSessions(ctx))
}

func TestOpenSession_IssuesToken(t *testing.T) {
	b := newBroker(t, nil)
	ctx := context.Background()

	sess, err := b.CreateSession(ctx, "x.test", "")
	require.NoError(t, err)

	tok, err := b.OpenSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, sess.ID, tok.SessionID)
}

func TestPersistenceFailure_RollsBack(t *testing.T) {
	fs := &failingStore{inner: store.NewMemory(), allowed: 1}
	b, err := broker.New(context.Background(), fs, credential.New(), breach.Disabled{},
		broker.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := b.CreateAlias(ctx, "kept", "ok.test", "")
	require.NoError(t, err)

	_, err = b.CreateAlias(ctx, "lost", "fail.test", "")
	assert.ErrorIs(t, err, domain.ErrPersistence)

	// The failed mutation must not be observable.
	aliases := b.ListAliases(ctx)
	require.Len(t, aliases, 1)
	assert.Equal(t, a.ID, aliases[0].ID)

	// And the durable copy matches memory.
	persisted, err := fs.inner.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted.Aliases, 1)
	assert.Equal(t, a.ID, persisted.Aliases[0].ID)
}

func TestCheckEmailBreach_EmptyEmailNeverCallsChecker(t *testing.T) {
	spy := &spyChecker{}
	b := newBroker(t, spy)

	_, err := b.CheckEmailBreach(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, spy.called)
}

func TestCheckEmailBreach_TransientFailureIsUnknown(t *testing.T) {
	spy := &spyChecker{err: errors.New("connection refused")}
	b := newBroker(t, spy)

	report, err := b.CheckEmailBreach(context.Background(), "me@real.test")
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, domain.BreachUnknown, report.Status)
	assert.Equal(t, "me@real.test", report.Email)
}

func TestCheckEmailBreach_Found(t *testing.T) {
	b := newBroker(t, breach.NewStatic("demo", "me@real.test"))

	report, err := b.CheckEmailBreach(context.Background(), "me@real.test")
	require.NoError(t, err)
	assert.Equal(t, domain.BreachFound, report.Status)
	assert.Equal(t, "demo", report.Source)
}

func TestGeneratePassword_DefaultContract(t *testing.T) {
	b := newBroker(t, nil)

	pw, err := b.GeneratePassword(context.Background(), credential.DefaultPasswordLength)
	require.NoError(t, err)
	assert.Len(t, pw, 16)
}

func TestNew_CorruptSnapshotDegradesToEmpty(t *testing.T) {
	b, err := broker.New(context.Background(), &corruptLoadStore{}, credential.New(), breach.Disabled{},
		broker.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	assert.Empty(t, b.ListAliases(context.Background()))
}

// corruptLoadStore simulates an unreadable snapshot on first load.
type corruptLoadStore struct {
	store.Memory
}

func (s *corruptLoadStore) Load(_ context.Context) (*domain.State, error) {
	return domain.NewState(), store.ErrCorrupt
}

func TestConcurrentCreates_AreLinearizable(t *testing.T) {
	b := newBroker(t, nil)
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	ids := make(chan domain.AliasID, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := b.CreateAlias(ctx, "worker", "load.test", "")
			assert.NoError(t, err)
			ids <- a.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.AliasID]struct{})
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate alias id under concurrency")
		seen[id] = struct{}{}
	}
	assert.Len(t, b.ListAliases(ctx), workers)
}

func TestReadsSeeConsistentSnapshots(t *testing.T) {
	b := newBroker(t, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			a, err := b.CreateAlias(ctx, "w", "rw.test", "")
			assert.NoError(t, err)
			_, err = b.CreateSession(ctx, "rw.test", a.ID)
			assert.NoError(t, err)
		}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			assert.Len(t, b.ListAliases(ctx), 50)
			assert.Len(t, b.ListSessions(ctx), 50)
			return
		case <-deadline:
			t.Fatal("writer did not finish")
		default:
			// Every bound session must reference an alias visible in the
			// same snapshot era; bound sessions never precede their alias.
			sessions := b.ListSessions(ctx)
			aliases := b.ListAliases(ctx)
			assert.LessOrEqual(t, len(sessions), len(aliases))
		}
	}
}
