package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/usecases/usecasetest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *usecasetest.Store, *usecasetest.Cache) {
	t.Helper()
	store := usecasetest.NewStore()
	c := usecasetest.NewCache()
	cfg := &Config{
		JWTSecret:       "test-secret",
		Issuer:          "cosmic-connect-test",
		TokenTTL:        time.Hour,
		SessionCacheTTL: time.Minute,
		BcryptCost:      4,
	}
	return New(store.DB(), store.Repos().Profiles, c, cfg, logger.Discard()), store, c
}

func TestSignUpIssuesTokenForRoleHome(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	tok, err := svc.SignUp(ctx, domain.SignUpInput{
		Email:    "  Luna@Example.com ",
		Password: "secret1",
		FullName: "Luna Vega",
		Role:     domain.RoleAstrologer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "luna@example.com", tok.Profile.Email)
	assert.Equal(t, domain.ViewAstrologerDashboard, tok.HomeView)

	session, err := svc.Session(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.Profile.ID, session.ProfileID)
	assert.Equal(t, domain.RoleAstrologer, session.Role())
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	cases := map[string]domain.SignUpInput{
		"short password": {Email: "a@b.co", Password: "12345", FullName: "A"},
		"bad email":      {Email: "not-an-email", Password: "123456", FullName: "A"},
		"no name":        {Email: "a@b.co", Password: "123456", FullName: "  "},
		"admin role":     {Email: "a@b.co", Password: "123456", FullName: "A", Role: domain.RoleAdmin},
		"long password":  {Email: "a@b.co", Password: strings.Repeat("a", 73), FullName: "A"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	in := domain.SignUpInput{Email: "sol@example.com", Password: "123456", FullName: "Sol"}
	_, err := svc.SignUp(ctx, in)
	require.NoError(t, err)

	in.Email = "SOL@example.com"
	_, err = svc.SignUp(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSignIn(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpInput{Email: "mira@example.com", Password: "starlight", FullName: "Mira"})
	require.NoError(t, err)

	tok, err := svc.SignIn(ctx, "MIRA@example.com", "starlight")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewUserDashboard, tok.HomeView)

	_, err = svc.SignIn(ctx, "mira@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.SignIn(ctx, "nobody@example.com", "starlight")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.SignIn(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSessionRejectsBadTokens(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	profile := store.AddProfile(domain.RoleUser, "Orion")

	_, err := svc.Session(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Session(ctx, "garbage.token.value")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// чужой секрет
	other := *svc
	otherCfg := *svc.Cfg
	otherCfg.JWTSecret = "another-secret"
	other.Cfg = &otherCfg
	foreign, _, err := other.issueToken(&profile, time.Now())
	require.NoError(t, err)
	_, err = svc.Session(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// истёкший
	expired, _, err := svc.issueToken(&profile, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.Session(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// алгоритм none
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			Issuer:    svc.Cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Session(ctx, unsigned)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionUnknownProfile(t *testing.T) {
	svc, _, _ := newService(t)
	ghost := domain.Profile{Role: domain.RoleUser}
	tok, _, err := svc.issueToken(&ghost, time.Now())
	require.NoError(t, err)

	_, err = svc.Session(context.Background(), tok)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionProfileIsCached(t *testing.T) {
	svc, store, c := newService(t)
	ctx := context.Background()
	profile := store.AddProfile(domain.RoleAdmin, "Vega")

	tok, _, err := svc.issueToken(&profile, time.Now())
	require.NoError(t, err)

	_, err = svc.Session(ctx, tok)
	require.NoError(t, err)

	ok, err := c.Exists(ctx, sessionProfileKeyPrefix+profile.ID.String())
	require.NoError(t, err)
	assert.True(t, ok)

	session, err := svc.Session(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.Role())
	assert.Equal(t, "Vega", session.Profile.FullName)
}

func TestSessionWithoutCache(t *testing.T) {
	svc, store, _ := newService(t)
	svc.Cache = nil
	profile := store.AddProfile(domain.RoleUser, "Altair")

	tok, _, err := svc.issueToken(&profile, time.Now())
	require.NoError(t, err)
	session, err := svc.Session(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, session.ProfileID)
}
