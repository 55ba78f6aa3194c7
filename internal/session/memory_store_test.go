package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect-service/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Now()
	s := Session{
		SessionID: "sid",
		UserID:    "u-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)

	require.NoError(t, store.Delete(ctx, "sid"))
	got, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.Error(t, store.Create(ctx, Session{SessionID: "sid", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Create(ctx, Session{SessionID: "sid", UserID: "u", ExpiresAt: time.Now().Add(-time.Second)}))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Create(ctx, Session{SessionID: "sid", UserID: "u", ExpiresAt: now.Add(time.Minute)}))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRefresh(t *testing.T) {
	now := time.Now()
	absolute := now.Add(time.Hour)

	assert.True(t, ExpiryAt(now, absolute, 0).Equal(absolute))
	assert.True(t, ExpiryAt(now, absolute, 10*time.Minute).Equal(now.Add(10*time.Minute)))
	assert.True(t, ExpiryAt(now, absolute, 2*time.Hour).Equal(absolute))

	s := Session{SessionID: "sid", UserID: "u", AbsoluteExpiresAt: absolute, ExpiresAt: now.Add(5 * time.Minute)}

	got, ok := s.Refresh(now, 30*time.Minute)
	assert.True(t, ok)
	assert.True(t, got.ExpiresAt.Equal(now.Add(30*time.Minute)))

	// recently refreshed sessions are left alone
	_, ok = got.Refresh(now.Add(time.Minute), 30*time.Minute)
	assert.False(t, ok)

	_, ok = s.Refresh(now, 0)
	assert.False(t, ok)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(ctx, Session{SessionID: "sid", UserID: "u", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Update(ctx, Session{SessionID: "sid", UserID: "u", ExpiresAt: now.Add(time.Hour)}))

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ExpiresAt.Equal(now.Add(time.Hour)))

	require.NoError(t, store.Update(ctx, Session{SessionID: "sid", UserID: "u", ExpiresAt: now.Add(-time.Second)}))
	got, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryPendingStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPendingStore()

	p := &Pending{Next: "/dashboard"}
	p.SetClient("github", auth.ClientState{Provider: "github", State: "abc"})
	require.NoError(t, store.Save(ctx, "pid", p, time.Minute))

	// mutating the caller's value does not leak into the store
	p.Next = "/elsewhere"

	got, err := store.Get(ctx, "pid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/dashboard", got.Next)

	c, ok := got.Client("github")
	require.True(t, ok)
	assert.Equal(t, "abc", c.State)

	_, ok = got.Client("google")
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "pid"))
	got, err = store.Get(ctx, "pid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryPendingStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPendingStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "pid", &Pending{}, time.Minute))
	assert.Error(t, store.Save(ctx, "pid", &Pending{}, 0))

	store.now = func() time.Time { return now.Add(time.Hour) }
	got, err := store.Get(ctx, "pid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPendingNextOr(t *testing.T) {
	var nilPending *Pending
	assert.Equal(t, "/", nilPending.NextOr("/"))
	assert.Equal(t, "/", (&Pending{}).NextOr("/"))
	assert.Equal(t, "/x", (&Pending{Next: "/x"}).NextOr("/"))
}

func TestCookies(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, PendingCookieName, "pid", time.Now().Add(time.Minute), CookieOptions{Secure: true})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, PendingCookieName, cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	assert.Equal(t, "pid", ReadCookie(r, PendingCookieName))
	assert.Equal(t, "", ReadCookie(r, CookieName))

	w = httptest.NewRecorder()
	ClearCookie(w, CookieName, CookieOptions{})
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestRandomToken(t *testing.T) {
	a, err := GenerateID()
	require.NoError(t, err)
	b, err := GenerateID()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
