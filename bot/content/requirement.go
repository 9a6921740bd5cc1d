package content

import (
	"strconv"
	"strings"
)

// ReqKind enumerates the closed set of requirement tokens used by ally
// recruitment and ship upgrades. Tokens the game parses but does not yet
// enforce (location:, special_event:) map to ReqUnimplemented and always
// evaluate as satisfied.
type ReqKind int

const (
	ReqLevelAtLeast ReqKind = iota
	ReqFactionIs
	ReqDreamIs
	ReqQuestCompleted
	ReqCrewLevelAtLeast
	ReqShipTypeIs
	ReqUpgradeApplied
	ReqUnimplemented
)

// Requirement is a single parsed "key:value" token.
type Requirement struct {
	Kind  ReqKind
	Level int    // ReqLevelAtLeast, ReqCrewLevelAtLeast
	Value string // ReqFactionIs, ReqDreamIs, ReqQuestCompleted, ReqShipTypeIs, ReqUpgradeApplied
	Raw   string // original token, kept for display and for unimplemented tags
}

// ParseRequirement converts a raw token into its typed form. Unknown tags are
// not an error: they become ReqUnimplemented so content authored ahead of the
// engine keeps loading.
func ParseRequirement(token string) Requirement {
	key, value, found := strings.Cut(token, ":")
	if !found {
		return Requirement{Kind: ReqUnimplemented, Raw: token}
	}

	switch key {
	case "level":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Requirement{Kind: ReqUnimplemented, Raw: token}
		}
		return Requirement{Kind: ReqLevelAtLeast, Level: n, Raw: token}
	case "crew_level":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Requirement{Kind: ReqUnimplemented, Raw: token}
		}
		return Requirement{Kind: ReqCrewLevelAtLeast, Level: n, Raw: token}
	case "faction":
		return Requirement{Kind: ReqFactionIs, Value: value, Raw: token}
	case "dream":
		return Requirement{Kind: ReqDreamIs, Value: value, Raw: token}
	case "complete_quest":
		return Requirement{Kind: ReqQuestCompleted, Value: value, Raw: token}
	case "ship_type":
		return Requirement{Kind: ReqShipTypeIs, Value: value, Raw: token}
	case "upgrade":
		return Requirement{Kind: ReqUpgradeApplied, Value: value, Raw: token}
	default:
		return Requirement{Kind: ReqUnimplemented, Raw: token}
	}
}

// ParseRequirements parses a list of raw tokens.
func ParseRequirements(tokens []string) []Requirement {
	if len(tokens) == 0 {
		return nil
	}
	reqs := make([]Requirement, 0, len(tokens))
	for _, t := range tokens {
		reqs = append(reqs, ParseRequirement(t))
	}
	return reqs
}
