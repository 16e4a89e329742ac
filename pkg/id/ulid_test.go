package id_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/herald/pkg/id"
)

func TestNewULID_Format(t *testing.T) {
	t.Parallel()

	ulid := id.NewULID()
	require.Len(t, ulid, 26)
	for _, r := range ulid {
		require.Contains(t, "0123456789ABCDEFGHJKMNPQRSTVWXYZ", string(r))
	}
}

func TestNewULID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		u := id.NewULID()
		_, dup := seen[u]
		require.False(t, dup, "duplicate ULID generated: %s", u)
		seen[u] = struct{}{}
	}
}

func TestNewULID_Sortable(t *testing.T) {
	t.Parallel()

	// Timestamp prefix makes IDs generated later compare greater or equal.
	first := id.NewULID()
	second := id.NewULID()
	require.LessOrEqual(t, strings.Compare(first[:10], second[:10]), 0)
}
