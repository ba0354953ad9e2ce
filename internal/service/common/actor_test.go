//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
)

// TestDetectActor ensures hostname and username are detected and non-empty.
func TestDetectActor(t *testing.T) {
	t.Parallel()

	actor, err := DetectActor()
	require.NoError(t, err)

	username, hostname, ok := strings.Cut(actor, "@")
	require.True(t, ok)
	require.NotEmpty(t, username)
	require.NotEmpty(t, hostname)
}

// TestWithActor checks that only non-empty actors reach the outgoing metadata.
func TestWithActor(t *testing.T) {
	t.Parallel()

	md, ok := metadata.FromOutgoingContext(withActor(context.Background(), "o.shokin@desk"))
	require.True(t, ok)
	require.Equal(t, []string{"o.shokin@desk"}, md.Get(api.ActorMetadataKey))

	_, ok = metadata.FromOutgoingContext(withActor(context.Background(), ""))
	require.False(t, ok)
}
