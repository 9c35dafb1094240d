package repository

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
    assert.Equal(t, "", placeholders(0))
    assert.Equal(t, "", placeholders(-1))
    assert.Equal(t, "?", placeholders(1))
    assert.Equal(t, "?,?,?", placeholders(3))
}

func TestLockSeatsQueryEncodesLockabilityPredicate(t *testing.T) {
    q := lockSeatsQuery(2)

    // One placeholder per seat ID.
    assert.Contains(t, q, "id IN (?,?)")
    // The claim and the availability check are one statement: the WHERE
    // clause must carry both the availability flag and the expiry branch.
    assert.Contains(t, q, "is_available = 1")
    assert.Contains(t, q, "(locked_at IS NULL OR locked_at < ?)")
    // The lock timestamp comes from the database clock, not an argument.
    assert.Contains(t, q, "locked_at = UTC_TIMESTAMP()")
    assert.Equal(t, 1, strings.Count(q, "UPDATE"), "locking must be a single statement")
}

func TestFinalizeSeatsQueryOwnershipFilter(t *testing.T) {
    q := finalizeSeatsQuery(3, false)
    assert.Contains(t, q, "id IN (?,?,?)")
    assert.Contains(t, q, "locked_by = ?")
    assert.Contains(t, q, "is_available = 0")
    // Lock fields are cleared when the seat is sold.
    assert.Contains(t, q, "locked_by = NULL")
    assert.Contains(t, q, "locked_at = NULL")
    // Default mode ignores lock age entirely.
    assert.NotContains(t, q, "locked_at >=")
}

func TestFinalizeSeatsQueryStrictAddsFreshnessCheck(t *testing.T) {
    q := finalizeSeatsQuery(1, true)
    assert.Contains(t, q, "locked_by = ?")
    assert.Contains(t, q, "locked_at >= ?")
}
