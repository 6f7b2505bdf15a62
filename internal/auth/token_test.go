package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/sprest/internal/auth"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name  string
		token *auth.Token
		valid bool
	}{
		{"nil", nil, false},
		{"no access token", &auth.Token{ExpiresAt: now.Add(time.Hour)}, false},
		{"no expiry", &auth.Token{AccessToken: "abc"}, true},
		{"expires in an hour", &auth.Token{AccessToken: "abc", ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", &auth.Token{AccessToken: "abc", ExpiresAt: now.Add(-time.Minute)}, false},
		{"inside the 30s buffer", &auth.Token{AccessToken: "abc", ExpiresAt: now.Add(10 * time.Second)}, false},
		{"just past the buffer", &auth.Token{AccessToken: "abc", ExpiresAt: now.Add(45 * time.Second)}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, tt.token.Valid())
		})
	}
}

func TestTokenStore(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	assert.Nil(t, store.Get())

	store.Set(&auth.Token{AccessToken: "first", TokenType: "bearer"})
	require.NotNil(t, store.Get())
	assert.Equal(t, "first", store.Get().AccessToken)

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()

	var wg sync.WaitGroup
	for _, value := range []string{"site-a", "site-b"} {
		value := value
		wg.Add(2)

		go func() {
			defer wg.Done()

			for i := 0; i < 50; i++ {
				store.Set(&auth.Token{AccessToken: value})
			}
		}()

		go func() {
			defer wg.Done()

			for i := 0; i < 50; i++ {
				_ = store.Get()
			}
		}()
	}

	wg.Wait()

	require.NotNil(t, store.Get())
	assert.Contains(t, []string{"site-a", "site-b"}, store.Get().AccessToken)
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the token", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("secret", time.Time{})

		token, err := manager.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "secret", token)
	})

	t.Run("cannot refresh", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("secret", time.Time{})
		require.ErrorIs(t, manager.RefreshToken(ctx), auth.ErrStaticTokenCannotRefresh)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("stale", time.Now().Add(-time.Minute))

		_, err := manager.GetToken(ctx)
		require.ErrorIs(t, err, auth.ErrTokenExpired)

		manager.SetToken("fresh", time.Now().Add(time.Hour))

		token, err := manager.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "fresh", token)
	})

	t.Run("empty token clears", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("secret", time.Time{})
		manager.SetToken("", time.Time{})

		_, err := manager.GetToken(ctx)
		require.ErrorIs(t, err, auth.ErrNoToken)
	})
}
