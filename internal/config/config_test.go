package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestOptInt(t *testing.T) {
    t.Setenv("LOCK_EXPIRY_MIN", "")
    assert.Equal(t, 10, optInt("LOCK_EXPIRY_MIN", 10))

    t.Setenv("LOCK_EXPIRY_MIN", "15")
    assert.Equal(t, 15, optInt("LOCK_EXPIRY_MIN", 10))

    // Garbage and non-positive values fall back to the default.
    t.Setenv("LOCK_EXPIRY_MIN", "soon")
    assert.Equal(t, 10, optInt("LOCK_EXPIRY_MIN", 10))
    t.Setenv("LOCK_EXPIRY_MIN", "0")
    assert.Equal(t, 10, optInt("LOCK_EXPIRY_MIN", 10))
    t.Setenv("LOCK_EXPIRY_MIN", "-3")
    assert.Equal(t, 10, optInt("LOCK_EXPIRY_MIN", 10))
}

func TestOptBool(t *testing.T) {
    t.Setenv("STRICT_FINALIZE", "")
    assert.False(t, optBool("STRICT_FINALIZE", false))
    assert.True(t, optBool("STRICT_FINALIZE", true))

    for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
        t.Setenv("STRICT_FINALIZE", v)
        assert.True(t, optBool("STRICT_FINALIZE", false), v)
    }
    for _, v := range []string{"0", "false", "FALSE", "no", "off"} {
        t.Setenv("STRICT_FINALIZE", v)
        assert.False(t, optBool("STRICT_FINALIZE", true), v)
    }
    t.Setenv("STRICT_FINALIZE", "maybe")
    assert.True(t, optBool("STRICT_FINALIZE", true))
}

func TestLoadRateLimitConfigClampsNonsense(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "-5")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
    // TTL is raised so the bucket state can survive idle refill periods.
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfigDefaults(t *testing.T) {
    t.Setenv("CACHE_ENABLED", "")
    t.Setenv("CACHE_METHODS", "")
    t.Setenv("CACHE_TTL", "")

    cfg := LoadCacheConfig()
    assert.True(t, cfg.Enabled)
    assert.Equal(t, 5*time.Second, cfg.TTL)
    assert.True(t, cfg.Methods["GET"])
    assert.False(t, cfg.Methods["POST"])
}

func TestParseMethods(t *testing.T) {
    m := parseMethods("get, HEAD ,")
    assert.True(t, m["GET"])
    assert.True(t, m["HEAD"])
    assert.Len(t, m, 2)
}
