package handler // handler defines http handlers

import (
    "errors"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated principal from echo.Context and
// converts it to uint64.  JWTAuth stores the raw "sub" claim, whose Go
// type depends on how the token was minted, so several numeric and string
// forms are accepted.  An error here means the request is unauthenticated
// and must not touch the datastore.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// indexToRowLabel converts a zero-based index to an alphabetical row label
// like A, B, ... Z, AA, AB.  Used when generating a showtime's seat grid.
func indexToRowLabel(i int) string {
    if i < 0 {
        return ""
    }
    res := []rune{}
    for {
        rem := i % 26
        res = append(res, rune('A'+rem))
        i = i/26 - 1
        if i < 0 {
            break
        }
    }
    for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
        res[j], res[k] = res[k], res[j]
    }
    return string(res)
}

// parseIDParam parses a positive uint64 path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}
