package engine

import (
	"fmt"
	"strings"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

// Subject bundles everything a requirement can be checked against. Crew and
// Ship may be nil; requirements that need them simply fail.
type Subject struct {
	Character *models.Character
	Crew      *models.Crew
	Ship      *models.Ship
}

// Satisfied evaluates one requirement against the subject. Unimplemented
// tokens always pass so content authored ahead of the engine never locks
// players out.
func Satisfied(req content.Requirement, s Subject) bool {
	switch req.Kind {
	case content.ReqLevelAtLeast:
		return s.Character != nil && s.Character.Level >= req.Level
	case content.ReqFactionIs:
		return s.Character != nil && s.Character.Faction == req.Value
	case content.ReqDreamIs:
		return s.Character != nil && s.Character.Dream == req.Value
	case content.ReqQuestCompleted:
		return s.Character != nil && s.Character.HasCompletedQuest(req.Value)
	case content.ReqCrewLevelAtLeast:
		return s.Crew != nil && s.Crew.Level >= req.Level
	case content.ReqShipTypeIs:
		return s.Ship != nil && s.Ship.Type == req.Value
	case content.ReqUpgradeApplied:
		return s.Ship != nil && s.Ship.HasUpgrade(req.Value)
	case content.ReqUnimplemented:
		return true
	default:
		return true
	}
}

// Missing returns the requirements the subject does not meet, in order.
func Missing(reqs []content.Requirement, s Subject) []content.Requirement {
	var missing []content.Requirement
	for _, req := range reqs {
		if !Satisfied(req, s) {
			missing = append(missing, req)
		}
	}
	return missing
}

// QuestAvailable reports whether the character can start the quest: level and
// allow-lists met, every prerequisite completed, not already completed. Empty
// allow-lists pass everyone.
func QuestAvailable(q content.Quest, ch *models.Character) bool {
	return len(QuestMissing(q, ch)) == 0
}

// QuestMissing returns human-readable reasons the character cannot start the
// quest, in a stable order. Empty means available.
func QuestMissing(q content.Quest, ch *models.Character) []string {
	var missing []string
	if ch.HasCompletedQuest(q.ID) {
		missing = append(missing, "Already completed")
	}
	if ch.Level < q.LevelRequired {
		missing = append(missing, fmt.Sprintf("Reach level %d", q.LevelRequired))
	}
	if len(q.Origins) > 0 && !contains(q.Origins, ch.Origin) {
		missing = append(missing, fmt.Sprintf("Hail from %s", listNames(q.Origins)))
	}
	if len(q.Dreams) > 0 && !contains(q.Dreams, ch.Dream) {
		missing = append(missing, fmt.Sprintf("Pursue the dream %s", listNames(q.Dreams)))
	}
	if len(q.Factions) > 0 && !contains(q.Factions, ch.Faction) {
		missing = append(missing, fmt.Sprintf("Belong to the %s faction", listNames(q.Factions)))
	}
	for _, prereq := range q.Prerequisites {
		if !ch.HasCompletedQuest(prereq) {
			missing = append(missing, fmt.Sprintf("Complete quest %s", prereq))
		}
	}
	return missing
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func listNames(names []string) string {
	return strings.Join(names, " or ")
}

// DescribeRequirement renders a requirement for "you still need" lists.
func DescribeRequirement(req content.Requirement, tables *content.Tables) string {
	switch req.Kind {
	case content.ReqLevelAtLeast:
		return fmt.Sprintf("Reach level %d", req.Level)
	case content.ReqFactionIs:
		return fmt.Sprintf("Belong to the %s faction", req.Value)
	case content.ReqDreamIs:
		return fmt.Sprintf("Pursue the dream %q", req.Value)
	case content.ReqQuestCompleted:
		if q, ok := tables.Quest(req.Value); ok {
			return fmt.Sprintf("Complete %q", q.Name)
		}
		return fmt.Sprintf("Complete quest %s", req.Value)
	case content.ReqCrewLevelAtLeast:
		return fmt.Sprintf("Crew level %d", req.Level)
	case content.ReqShipTypeIs:
		return fmt.Sprintf("Sail a %s", req.Value)
	case content.ReqUpgradeApplied:
		if u, ok := tables.Upgrade(req.Value); ok {
			return fmt.Sprintf("Install %s", u.Name)
		}
		return fmt.Sprintf("Install upgrade %s", req.Value)
	default:
		return req.Raw
	}
}
