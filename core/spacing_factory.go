package core

import (
	"fmt"
	"sort"
	"strings"
)

// spacingAliases maps every recognized command-line spelling to its
// canonical strategy name.
var spacingAliases = map[string]string{
	"bent-pipe":          "bent-pipe",
	"bentpipe":           "bent-pipe",
	"close-spaced":       "bent-pipe",
	"close":              "bent-pipe",
	"closed":             "bent-pipe",
	"frame-spaced":       "frame-spaced",
	"frame":              "frame-spaced",
	"orbit-spaced":       "orbit-spaced",
	"orbit":              "orbit-spaced",
	"close-orbit-spaced": "close-orbit-spaced",
}

// NewSpacingStrategy builds a SpacingStrategy from its command-line name.
// An empty name selects the bent-pipe default. Unrecognized names produce
// an error naming every valid option, sorted for a stable message.
func NewSpacingStrategy(name string) (SpacingStrategy, error) {
	if name == "" {
		return NewBentPipeSpacing(), nil
	}

	canonical, ok := spacingAliases[strings.ToLower(name)]
	if !ok {
		options := make([]string, 0, len(spacingAliases))
		for alias := range spacingAliases {
			options = append(options, alias)
		}
		sort.Strings(options)
		return nil, fmt.Errorf("Unknown spacing strategy: %s. Valid options: %s", name, strings.Join(options, ", "))
	}

	switch canonical {
	case "bent-pipe":
		return NewBentPipeSpacing(), nil
	case "frame-spaced":
		return NewFrameSpacedSpacing(DefaultFrameCount), nil
	case "orbit-spaced":
		return NewOrbitSpacedSpacing(), nil
	case "close-orbit-spaced":
		return NewCloseOrbitSpacedSpacing(DefaultCloseOrbitClusterSize, DefaultCloseOrbitIntraClusterSec, DefaultCloseOrbitInterClusterSec), nil
	default:
		panic("unreachable: unhandled canonical spacing strategy " + canonical)
	}
}
