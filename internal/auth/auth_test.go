package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/db"
	apperrors "condo/internal/errors"
	"condo/internal/metrics"
	"condo/internal/model"
)

type fakeUsers map[string]model.Usuario

func (f fakeUsers) FindUserByEmail(_ context.Context, email string) (model.Usuario, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return model.Usuario{}, db.ErrNotFound
}

type failingUsers struct{}

func (failingUsers) FindUserByEmail(context.Context, string) (model.Usuario, error) {
	return model.Usuario{}, errors.New("connection refused")
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAuth(t *testing.T, users UserFinder) (*Authenticator, *clock, *MemorySessionStore) {
	t.Helper()
	clk := &clock{t: time.Date(2023, 5, 10, 8, 0, 0, 0, time.UTC)}
	store := NewMemorySessionStore()
	n := 0
	a := New(users, store, Options{
		Now:      clk.Now,
		NewToken: func() string { n++; return "token-" + string(rune('a'+n-1)) },
	})
	return a, clk, store
}

func TestLogin_BuiltInAdmin(t *testing.T) {
	a, clk, _ := newTestAuth(t, nil)

	sess, err := a.Login(context.Background(), Credentials{Email: " Admin@Condominio.com ", Senha: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "token-a", sess.Token)
	assert.Equal(t, model.PerfilAdmin, sess.User.Perfil)
	assert.Equal(t, clk.t.Add(24*time.Hour), sess.ExpiresAt)

	_, err = a.Login(context.Background(), Credentials{Email: AdminEmail, Senha: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestLogin_StoredUser(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	users := fakeUsers{"maria@exemplo.com": {ID: "2", Nome: "Maria Souza", Email: "maria@exemplo.com", Senha: hash, Perfil: model.PerfilMorador}}
	a, _, _ := newTestAuth(t, users)

	sess, err := a.Login(context.Background(), Credentials{Email: "maria@exemplo.com", Senha: "123456"})
	require.NoError(t, err)
	assert.Equal(t, User{ID: "2", Nome: "Maria Souza", Email: "maria@exemplo.com", Perfil: model.PerfilMorador}, sess.User)

	_, err = a.Login(context.Background(), Credentials{Email: "maria@exemplo.com", Senha: "654321"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Login(context.Background(), Credentials{Email: "ninguem@exemplo.com", Senha: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ValidatesInput(t *testing.T) {
	a, _, _ := newTestAuth(t, nil)

	_, err := a.Login(context.Background(), Credentials{Email: "nao-e-email", Senha: ""})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "senha")
}

func TestLogin_LookupFailureIsServerError(t *testing.T) {
	a, _, _ := newTestAuth(t, failingUsers{})

	_, err := a.Login(context.Background(), Credentials{Email: "maria@exemplo.com", Senha: "123456"})
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentSession_SlidingIdleTimeout(t *testing.T) {
	a, clk, store := newTestAuth(t, nil)
	ctx := context.Background()

	sess, err := a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	require.NoError(t, err)

	clk.Advance(20 * time.Minute)
	_, ok := a.CurrentSession(ctx, sess.Token)
	require.True(t, ok)

	clk.Advance(20 * time.Minute)
	_, ok = a.CurrentSession(ctx, sess.Token)
	assert.True(t, ok, "activity resets the idle window")

	clk.Advance(31 * time.Minute)
	_, ok = a.CurrentSession(ctx, sess.Token)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "expired session removed")
}

func TestCurrentSession_AbsoluteLifetime(t *testing.T) {
	a, clk, _ := newTestAuth(t, nil)
	ctx := context.Background()

	sess, err := a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		clk.Advance(29 * time.Minute)
		a.CurrentSession(ctx, sess.Token)
	}
	_, ok := a.CurrentSession(ctx, sess.Token)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	clk := &clock{t: time.Now()}
	a := New(nil, NewMemorySessionStore(), Options{Now: clk.Now, Metrics: m})
	ctx := context.Background()

	sess, err := a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))

	require.NoError(t, a.Logout(ctx, sess.Token))
	_, ok := a.CurrentSession(ctx, sess.Token)
	assert.False(t, ok)
	assert.NoError(t, a.Logout(ctx, sess.Token), "second logout is a no-op")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("success")))
}

func TestLogin_DelayHonoursContext(t *testing.T) {
	a := New(nil, NewMemorySessionStore(), Options{LoginDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	assert.Equal(t, apperrors.KindTimeout, apperrors.KindOf(err))
}

func TestMemorySessionStore_Sweep(t *testing.T) {
	store := NewMemorySessionStore()
	now := time.Now()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, Session{Token: "old", ExpiresAt: now.Add(-time.Second), LastSeen: now}))
	require.NoError(t, store.Save(ctx, Session{Token: "idle", ExpiresAt: now.Add(time.Hour), LastSeen: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, Session{Token: "live", ExpiresAt: now.Add(time.Hour), LastSeen: now}))

	assert.Equal(t, 2, store.Sweep(now, 30*time.Minute))
	_, err := store.Get(ctx, "live")
	assert.NoError(t, err)
	assert.ErrorIs(t, store.Delete(ctx, "old"), ErrSessionNotFound)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Segura1")
	require.NoError(t, err)
	assert.NotEqual(t, "Segura1", hash)
	assert.True(t, CheckPassword(hash, "Segura1"))
	assert.False(t, CheckPassword(hash, "segura1"))
	assert.False(t, CheckPassword("", "Segura1"))
}

// logoutOnGet ends the session between CurrentSession's lookup and refresh.
type logoutOnGet struct {
	*MemorySessionStore
	a *Authenticator
}

func (s logoutOnGet) Get(ctx context.Context, token string) (Session, error) {
	sess, err := s.MemorySessionStore.Get(ctx, token)
	if err == nil {
		_ = s.a.Logout(ctx, token)
	}
	return sess, err
}

func TestCurrentSession_RefreshDoesNotUndoLogout(t *testing.T) {
	mem := NewMemorySessionStore()
	store := &logoutOnGet{MemorySessionStore: mem}
	a := New(nil, store, Options{})
	store.a = a
	ctx := context.Background()

	sess, err := a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	require.NoError(t, err)

	_, ok := a.CurrentSession(ctx, sess.Token)
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Len())

	_, ok = a.CurrentSession(ctx, sess.Token)
	assert.False(t, ok)
}

func TestMemorySessionStore_Touch(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	now := time.Now()

	assert.ErrorIs(t, store.Touch(ctx, Session{Token: "t", ExpiresAt: now.Add(time.Hour)}), ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Save(ctx, Session{Token: "t", ExpiresAt: now.Add(time.Hour), LastSeen: now}))
	require.NoError(t, store.Touch(ctx, Session{Token: "t", ExpiresAt: now.Add(time.Hour), LastSeen: now.Add(time.Minute)}))
	got, err := store.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), got.LastSeen)
}

func TestSweepExpired(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	clk := &clock{t: time.Date(2023, 5, 10, 8, 0, 0, 0, time.UTC)}
	store := NewMemorySessionStore()
	a := New(nil, store, Options{Now: clk.Now, Metrics: m})
	ctx := context.Background()

	_, err := a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	require.NoError(t, err)
	_, err = a.Login(ctx, Credentials{Email: AdminEmail, Senha: AdminPassword})
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveSessions))

	clk.Advance(10 * time.Minute)
	assert.Equal(t, 0, a.SweepExpired())

	// the default idle timeout of 30 minutes applies when none is configured
	clk.Advance(25 * time.Minute)
	assert.Equal(t, 2, a.SweepExpired())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestSweepExpired_StoreWithoutSweep(t *testing.T) {
	a := New(nil, NewRedisSessionStore(nil), Options{})
	assert.Equal(t, 0, a.SweepExpired())
}
