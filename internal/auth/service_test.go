package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firewatch/internal/apperror"
)

func newTestService(ttl time.Duration) *Service {
	return NewService(NewMemoryUserStore(), NewMemorySessionStore(), "test-secret", ttl)
}

func TestLoginCreatesUser(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	user, token, err := svc.Login(ctx, "alice", RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, RoleUser, user.Role)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestLoginReusesExistingUser(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	first, token1, err := svc.Login(ctx, "bob", RoleUser)
	require.NoError(t, err)

	// Same name logs into the same account; the stored role wins, so a
	// returning citizen cannot escalate to firefighter.
	second, token2, err := svc.Login(ctx, "bob", RoleFirefighter)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, RoleUser, second.Role)
	assert.NotEqual(t, token1, token2)
}

func TestLoginRejectsBadInput(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "", RoleUser)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, _, err = svc.Login(ctx, "   ", RoleUser)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, _, err = svc.Login(ctx, "carol", Role("admin"))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	user, token, err := svc.Login(ctx, "dave", RoleFirefighter)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, RoleFirefighter, got.Role)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	// Token signed with another secret must not verify.
	other := newTestService(time.Hour)
	_, token, err := other.Login(ctx, "eve", RoleUser)
	require.NoError(t, err)
	other.secret = []byte("different-secret")
	_, err = other.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "frank", RoleUser)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	// The JWT is still within its lifetime but the session row is gone.
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	// Idempotent: revoking again is not an error.
	assert.NoError(t, svc.Logout(ctx, token))
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	svc := newTestService(-time.Minute)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "grace", RoleUser)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

func TestConcurrentLogins(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := context.Background()

	const n = 16
	tokens := make([]string, n)
	errs := make([]error, n)
	done := make(chan int, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, tokens[i], errs[i] = svc.Login(ctx, "henry", RoleUser)
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}

	seen := map[string]bool{}
	var userID int64
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[tokens[i]], "tokens must be unique")
		seen[tokens[i]] = true
		u, err := svc.Authenticate(ctx, tokens[i])
		require.NoError(t, err)
		if userID == 0 {
			userID = u.ID
		}
		assert.Equal(t, userID, u.ID, "racing first logins must converge on one account")
	}
}

func TestSeedFromFile(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserStore()

	path := filepath.Join(t.TempDir(), "users.yaml")
	data := `users:
  - name: station-7
    role: firefighter
  - name: station-9
    role: firefighter
  - name: ""
    role: firefighter
  - name: weird
    role: chief
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	require.NoError(t, SeedFromFile(ctx, users, path))

	u, err := users.GetByName(ctx, "station-7")
	require.NoError(t, err)
	assert.Equal(t, RoleFirefighter, u.Role)

	_, err = users.GetByName(ctx, "weird")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Re-seeding leaves existing accounts untouched.
	require.NoError(t, SeedFromFile(ctx, users, path))
	again, err := users.GetByName(ctx, "station-7")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}
