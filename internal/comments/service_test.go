package comments

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firewatch/internal/apperror"
	"firewatch/internal/auth"
	"firewatch/internal/fires"
)

type fixture struct {
	svc         *Service
	fireSvc     *fires.Service
	citizen     *auth.User
	firefighter *auth.User
	fire        *fires.Fire
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	users := auth.NewMemoryUserStore()
	citizen, err := users.Create(ctx, "citizen", auth.RoleUser)
	require.NoError(t, err)
	firefighter, err := users.Create(ctx, "firefighter", auth.RoleFirefighter)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fireStore := fires.NewMemoryStore(users)
	fireSvc := fires.NewService(fireStore, logger)
	fire, err := fireSvc.Create(ctx, citizen.ID, 34.9, 33.3, "smoke near hill")
	require.NoError(t, err)

	return &fixture{
		svc:         NewService(NewMemoryStore(users), fireStore, logger),
		fireSvc:     fireSvc,
		citizen:     citizen,
		firefighter: firefighter,
		fire:        fire,
	}
}

func TestAddAndListInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c1, err := f.svc.Add(ctx, f.fire.ID, f.citizen.ID, "first")
	require.NoError(t, err)
	c2, err := f.svc.Add(ctx, f.fire.ID, f.firefighter.ID, "second")
	require.NoError(t, err)
	c3, err := f.svc.Add(ctx, f.fire.ID, f.citizen.ID, "third")
	require.NoError(t, err)

	assert.True(t, c1.ID < c2.ID && c2.ID < c3.ID, "ids must be strictly increasing")
	require.NotNil(t, c2.User)
	assert.Equal(t, f.firefighter.ID, c2.User.ID)

	list, err := f.svc.ListFor(ctx, f.fire.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{list[0].Text, list[1].Text, list[2].Text})
}

func TestAddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.fire.ID, f.citizen.ID, "")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.Add(ctx, f.fire.ID, f.citizen.ID, "  \t ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.Add(ctx, f.fire.ID, f.citizen.ID, strings.Repeat("x", 5001))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAddToUnknownFire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, 999, f.citizen.ID, "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.ListFor(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListEmptyIsNotAnError(t *testing.T) {
	f := newFixture(t)
	list, err := f.svc.ListFor(context.Background(), f.fire.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Closed incidents still accept follow-up notes; only status transitions
// are gated by the lifecycle.
func TestCommentOnClosedFire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.fireSvc.UpdateStatus(ctx, f.fire.ID, fires.StatusClosed, f.firefighter)
	require.NoError(t, err)

	c, err := f.svc.Add(ctx, f.fire.ID, f.citizen.ID, "damage report attached")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
}

func TestConcurrentAppendsGetUniqueIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 24
	var wg sync.WaitGroup
	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := f.svc.Add(ctx, f.fire.ID, f.citizen.ID, "note")
			if err == nil {
				ids[i] = c.ID
			}
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, id := range ids {
		require.NotZero(t, id)
		assert.False(t, seen[id], "comment ids must be unique")
		seen[id] = true
	}

	list, err := f.svc.ListFor(ctx, f.fire.ID)
	require.NoError(t, err)
	assert.Len(t, list, n)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].ID < list[i].ID, "list must be ordered by id")
	}
}
