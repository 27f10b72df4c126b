package mcp

import (
	"context"
	"testing"
)

// TestUserIDFromContextDefault verifies the empty default when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != "" {
		t.Errorf("UserIDFromContext(empty) = %q, want empty", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), "u42")
	if id := UserIDFromContext(ctx); id != "u42" {
		t.Errorf("UserIDFromContext = %q, want u42", id)
	}
}
