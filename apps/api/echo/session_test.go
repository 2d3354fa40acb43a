package echoapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
)

func TestSessionManager_Token(t *testing.T) {
	sm := newSessionManager(&core.Config{AppName: "StudyHub", SecretKey: "s3cr3t", Server: core.ServerConfig{SessionTTL: time.Hour}})

	ss, err := sm.token("u1", time.Now())
	require.NoError(t, err)
	uid, err := sm.userID(ss)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	t.Run("expired", func(t *testing.T) {
		ss, err := sm.token("u1", time.Now().Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = sm.userID(ss)
		assert.ErrorIs(t, err, errInvalidSession)
	})

	t.Run("other key", func(t *testing.T) {
		other := sm
		other.key = []byte("other")
		ss, err := other.token("u1", time.Now())
		require.NoError(t, err)
		_, err = sm.userID(ss)
		assert.ErrorIs(t, err, errInvalidSession)
	})

	t.Run("other signing method", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Issuer: "StudyHub", Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		ss, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = sm.userID(ss)
		assert.ErrorIs(t, err, errInvalidSession)
	})

	t.Run("no subject", func(t *testing.T) {
		ss, err := sm.token("", time.Now())
		require.NoError(t, err)
		_, err = sm.userID(ss)
		assert.ErrorIs(t, err, errInvalidSession)
	})
}
