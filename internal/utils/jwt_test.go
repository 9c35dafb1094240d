package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
    access, err := NewAccessToken("secret", 42, "CUSTOMER", 15)
    require.NoError(t, err)
    require.NotEmpty(t, access.Token)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, 5*time.Second)

    tok, err := jwt.Parse(access.Token, func(t *jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.EqualValues(t, 42, claims["sub"])
    assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestNewAccessTokenWrongSecretFails(t *testing.T) {
    access, err := NewAccessToken("secret", 42, "CUSTOMER", 15)
    require.NoError(t, err)

    _, err = jwt.Parse(access.Token, func(t *jwt.Token) (interface{}, error) {
        return []byte("another"), nil
    })
    assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
    hash, err := HashPassword("s3cret!", 4)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "s3cret!"))
    assert.False(t, VerifyPassword(hash, "wrong"))
    assert.False(t, VerifyPassword("not-a-hash", "s3cret!"))
}
