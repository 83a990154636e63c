// Package auth signs users in against the built-in administrator and the
// stored user accounts and tracks their sessions.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"condo/internal/db"
	apperrors "condo/internal/errors"
	"condo/internal/metrics"
	"condo/internal/model"
	"condo/internal/validation"
)

// Built-in administrator account.
const (
	AdminEmail    = model.AdminEmail
	AdminPassword = "admin"
)

var adminUser = User{
	ID:     "admin",
	Nome:   "Administrador",
	Email:  AdminEmail,
	Perfil: model.PerfilAdmin,
	Avatar: "/static/avatar.svg",
}

// ErrInvalidCredentials is wrapped by Login on a wrong e-mail or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the login form input.
type Credentials struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// UserFinder looks up stored accounts.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (model.Usuario, error)
}

// Options tunes session lifetimes.
type Options struct {
	TTL         time.Duration // absolute lifetime, default 24h
	IdleTimeout time.Duration // sliding inactivity limit, default 30m
	LoginDelay  time.Duration // simulated latency of Login
	Metrics     *metrics.Metrics

	Now      func() time.Time
	NewToken func() string
}

func (o *Options) setDefaults() {
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	if o.IdleTimeout < 0 {
		o.IdleTimeout = 0
	} else if o.IdleTimeout == 0 {
		o.IdleTimeout = 30 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewToken == nil {
		o.NewToken = uuid.NewString
	}
}

// Authenticator checks credentials and manages sessions.
type Authenticator struct {
	users    UserFinder
	sessions SessionStore
	opts     Options
}

// New creates an Authenticator. users may be nil, leaving only the built-in
// administrator.
func New(users UserFinder, sessions SessionStore, opts Options) *Authenticator {
	opts.setDefaults()
	return &Authenticator{users: users, sessions: sessions, opts: opts}
}

// TTL is the absolute session lifetime.
func (a *Authenticator) TTL() time.Duration { return a.opts.TTL }

// Login verifies c and starts a session.
func (a *Authenticator) Login(ctx context.Context, c Credentials) (Session, error) {
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if err := validation.Login(c.Email, c.Senha); err != nil {
		return Session{}, err
	}
	if err := wait(ctx, a.opts.LoginDelay); err != nil {
		return Session{}, apperrors.Wrap(apperrors.KindTimeout, "Tempo esgotado", err)
	}

	user, err := a.verify(ctx, c)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrInvalidCredentials) {
			outcome = "invalid"
		}
		a.opts.Metrics.RecordLogin(outcome)
		slog.Info("login rejected", "email", c.Email, "outcome", outcome)
		return Session{}, err
	}

	now := a.opts.Now()
	sess := Session{
		Token:     a.opts.NewToken(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(a.opts.TTL),
		LastSeen:  now,
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		a.opts.Metrics.RecordLogin("error")
		return Session{}, apperrors.Wrap(apperrors.KindServer, "Erro ao criar sessão", err)
	}
	a.opts.Metrics.RecordLogin("success")
	a.opts.Metrics.SessionStarted()
	slog.Info("login", "user", user.ID, "perfil", user.Perfil)
	return sess, nil
}

func (a *Authenticator) verify(ctx context.Context, c Credentials) (User, error) {
	invalid := apperrors.Wrap(apperrors.KindAuth, "Credenciais inválidas", ErrInvalidCredentials)

	if c.Email == AdminEmail {
		if c.Senha != AdminPassword {
			return User{}, invalid
		}
		return adminUser, nil
	}
	if a.users == nil {
		return User{}, invalid
	}
	u, err := a.users.FindUserByEmail(ctx, c.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return User{}, invalid
		}
		return User{}, apperrors.Wrap(apperrors.KindServer, "Erro ao verificar credenciais", err)
	}
	if !CheckPassword(u.Senha, c.Senha) {
		return User{}, invalid
	}
	return User{ID: u.ID, Nome: u.Nome, Email: u.Email, Perfil: u.Perfil, Avatar: u.Avatar}, nil
}

// CurrentSession returns the live session for token and extends its idle
// window. Expired sessions are removed.
func (a *Authenticator) CurrentSession(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	sess, err := a.sessions.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.Error("session lookup failed", "error", err)
		}
		return Session{}, false
	}
	now := a.opts.Now()
	if sess.Expired(now, a.opts.IdleTimeout) {
		if err := a.sessions.Delete(ctx, token); err == nil {
			a.opts.Metrics.SessionEnded()
		}
		return Session{}, false
	}
	sess.LastSeen = now
	if err := a.sessions.Touch(ctx, sess); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Session{}, false
		}
		slog.Error("session refresh failed", "error", err)
	}
	return sess, true
}

type sweeper interface {
	Sweep(now time.Time, idle time.Duration) int
}

// SweepExpired drops expired sessions from stores that keep them in process
// and returns how many went. Redis expires its keys on its own.
func (a *Authenticator) SweepExpired() int {
	sw, ok := a.sessions.(sweeper)
	if !ok {
		return 0
	}
	n := sw.Sweep(a.opts.Now(), a.opts.IdleTimeout)
	for range n {
		a.opts.Metrics.SessionEnded()
	}
	return n
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (a *Authenticator) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.SweepExpired(); n > 0 {
				slog.Debug("Swept expired sessions", "count", n)
			}
		}
	}
}

// Logout ends the session. Unknown tokens are ignored.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := a.sessions.Delete(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	a.opts.Metrics.SessionEnded()
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
