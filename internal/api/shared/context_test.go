package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stockpile/stockpile-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	require.Len(t, traceID, 2*TraceIDLength)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(context.Background())))
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetTraceID(context.WithValue(context.Background(), TraceIDKey, 42)))
}

func TestFallbackTraceIDUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateFallbackTraceID()
		assert.Len(t, id, 2*TraceIDLength)
		assert.False(t, seen[id], "duplicate fallback trace id")
		seen[id] = true
	}
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	_, ok = ClaimsFromContext(WithClaims(context.Background(), nil))
	assert.False(t, ok)

	claims := &auth.Claims{Email: "a@x.io"}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)
}
