package application

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// DiscoverGroups returns the consumer groups whose retry topic exists. A retry topic is
// the group name behind prefix; topics without the prefix are ignored. The result is
// sorted so repeated passes query groups in the same order.
func DiscoverGroups(topics []string, prefix string) []string {
	groups := lo.FilterMap(topics, func(topic string, _ int) (string, bool) {
		group, ok := strings.CutPrefix(topic, prefix)
		return group, ok && group != ""
	})
	slices.Sort(groups)
	return groups
}
