package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverGroups(t *testing.T) {
	t.Parallel()
	topics := []string{"%RETRY%GroupB", "OrdinaryTopic", "%RETRY%GroupA", "%DLQ%GroupA"}
	require.Equal(t, []string{"GroupA", "GroupB"}, DiscoverGroups(topics, "%RETRY%"))
}

func TestDiscoverGroups_Edges(t *testing.T) {
	t.Parallel()
	require.Empty(t, DiscoverGroups(nil, "%RETRY%"))
	require.Empty(t, DiscoverGroups([]string{"%RETRY%"}, "%RETRY%"), "bare prefix names no group")
	require.Empty(t, DiscoverGroups([]string{"x%RETRY%g"}, "%RETRY%"), "prefix must lead")
	require.Equal(t, []string{"orders"}, DiscoverGroups([]string{"retry.orders", "orders"}, "retry."))
}
