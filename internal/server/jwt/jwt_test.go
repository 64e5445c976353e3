package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-0123456789abcdef")

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s, err := NewService(testSecret, opts...)
	require.NoError(t, err)
	return s
}

func TestNewService_EmptySecret(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

func TestService_IssueAndVerify(t *testing.T) {
	s := newTestService(t)

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			token, err := s.Issue(42, "alice@example.com", kind)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)

			claims, err := s.VerifyKind(token, kind)
			require.NoError(t, err)

			id, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, int64(42), id)
			assert.Equal(t, "alice@example.com", claims.Email)
			assert.Equal(t, kind, claims.Kind)
			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, time.Now().Add(s.TTL(kind)), claims.ExpiresAt.Time, 5*time.Second)
		})
	}
}

func TestService_DefaultTTLs(t *testing.T) {
	s := newTestService(t)
	assert.Equal(t, 15*time.Minute, s.TTL(KindAccess))
	assert.Equal(t, 7*24*time.Hour, s.TTL(KindRefresh))

	s = newTestService(t, WithTTL(time.Minute, 0))
	assert.Equal(t, time.Minute, s.TTL(KindAccess))
	assert.Equal(t, DefaultRefreshTokenTTL, s.TTL(KindRefresh))
}

func TestService_TokensAreUnique(t *testing.T) {
	now := time.Now()
	s := newTestService(t, WithClock(func() time.Time { return now }))

	t1, err := s.Issue(1, "a@example.com", KindRefresh)
	require.NoError(t, err)
	t2, err := s.Issue(1, "a@example.com", KindRefresh)
	require.NoError(t, err)

	// Одинаковые claims в одну секунду всё равно дают разные токены
	assert.NotEqual(t, t1, t2)
}

func TestService_Verify_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s := newTestService(t, WithClock(func() time.Time { return clock() }))

	token, err := s.Issue(1, "a@example.com", KindAccess)
	require.NoError(t, err)

	// Срок проверяется в момент проверки, а не выпуска
	clock = func() time.Time { return now.Add(16 * time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestService_Verify_Invalid(t *testing.T) {
	s := newTestService(t)
	other, err := NewService([]byte("another-secret-another-secret-00"))
	require.NoError(t, err)

	foreign, err := other.Issue(1, "a@example.com", KindAccess)
	require.NoError(t, err)

	valid, err := s.Issue(1, "a@example.com", KindAccess)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{
		Kind: KindAccess,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    issuer,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noneToken, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		Kind:             KindAccess,
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "1", Issuer: issuer},
	})
	noExpToken, err := noExp.SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "randomstring123"},
		{name: "malformed", token: "invalid.token.here"},
		{name: "wrong secret", token: foreign},
		{name: "tampered payload", token: tampered},
		{name: "alg none", token: noneToken},
		{name: "no expiry", token: noExpToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := s.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestService_VerifyKind_WrongKind(t *testing.T) {
	s := newTestService(t)

	access, err := s.Issue(1, "a@example.com", KindAccess)
	require.NoError(t, err)

	_, err = s.VerifyKind(access, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestService_Issue_UnknownKind(t *testing.T) {
	s := newTestService(t)
	_, err := s.Issue(1, "a@example.com", Kind("id"))
	assert.Error(t, err)
}

func TestClaims_UserID(t *testing.T) {
	c := &Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.ErrorIs(t, err, ErrTokenInvalid)

	c.Subject = "0"
	_, err = c.UserID()
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
