package core

import (
	"fmt"
	"sort"
	"strings"
)

var policyAliases = map[string]string{
	"sticky":                "sticky",
	"greedy":                "sticky",
	"fifo":                  "fifo",
	"roundrobin":            "roundrobin",
	"random":                "random",
	"sjf":                   "sjf",
	"shortestjobfirst":      "sjf",
	"srtf":                  "srtf",
	"shortestremainingtime": "srtf",
}

// NewLinkPolicy builds a LinkPolicy from its command-line name. An empty
// name selects the sticky default. Unrecognized names produce an error
// naming every valid option, sorted for a stable message.
func NewLinkPolicy(name string) (LinkPolicy, error) {
	if name == "" {
		return NewStickyLinkPolicy(), nil
	}

	canonical, ok := policyAliases[strings.ToLower(name)]
	if !ok {
		options := make([]string, 0, len(policyAliases))
		for alias := range policyAliases {
			options = append(options, alias)
		}
		sort.Strings(options)
		return nil, fmt.Errorf("Unknown link policy: %s. Valid options: %s", name, strings.Join(options, ", "))
	}

	switch canonical {
	case "sticky":
		return NewStickyLinkPolicy(), nil
	case "fifo":
		return NewFIFOLinkPolicy(), nil
	case "roundrobin":
		return NewRoundRobinLinkPolicy(), nil
	case "random":
		return NewRandomLinkPolicy(), nil
	case "sjf":
		return NewShortestJobFirstLinkPolicy(), nil
	case "srtf":
		return NewShortestRemainingTimeLinkPolicy(), nil
	default:
		panic("unreachable: unhandled canonical link policy " + canonical)
	}
}
