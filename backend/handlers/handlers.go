package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/grandline-rpg/grandline/backend/models"
	"github.com/grandline-rpg/grandline/bot/content"
	dbmodels "github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
)

const defaultLeaderboardSize = 25

// WebApp bundles everything the handlers read from. The API is read-only;
// all writes go through the bot.
type WebApp struct {
	Characters repositories.CharacterRepository
	Crews      repositories.CrewRepository
	Ships      repositories.ShipRepository
	Tables     *content.Tables
	Version    string
}

func HealthCheck(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": app.Version,
		})
	}
}

// BountyLeaderboard lists the most wanted characters.
func BountyLeaderboard(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := parseLimit(c.Query("limit"))
		chars, err := app.Characters.TopByBounty(c.Context(), limit)
		if err != nil {
			return internalError(c, "failed to load leaderboard")
		}
		out := make([]models.CharacterSummary, 0, len(chars))
		for _, ch := range chars {
			out = append(out, characterSummary(ch))
		}
		return c.JSON(models.NewSuccessResponse(out))
	}
}

// CrewLeaderboard lists crews by reputation.
func CrewLeaderboard(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := parseLimit(c.Query("limit"))
		crews, err := app.Crews.TopByReputation(c.Context(), limit)
		if err != nil {
			return internalError(c, "failed to load leaderboard")
		}
		out := make([]models.CrewSummary, 0, len(crews))
		for _, crew := range crews {
			out = append(out, crewSummary(crew, nil))
		}
		return c.JSON(models.NewSuccessResponse(out))
	}
}

// CharactersByUser lists a Discord user's characters.
func CharactersByUser(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chars, err := app.Characters.GetByUser(c.Context(), c.Params("user"))
		if err != nil {
			return internalError(c, "failed to load characters")
		}
		if len(chars) == 0 {
			return notFound(c, "no characters for that user")
		}
		out := make([]models.CharacterSummary, 0, len(chars))
		for _, ch := range chars {
			out = append(out, characterSummary(ch))
		}
		return c.JSON(models.NewSuccessResponse(out))
	}
}

// CrewDetail returns one crew with its ship.
func CrewDetail(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		crew, err := app.Crews.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			if repositories.IsNotFound(err) {
				return notFound(c, "crew not found")
			}
			return internalError(c, "failed to load crew")
		}
		var ship *dbmodels.Ship
		if crew.ShipID != "" {
			ship, _ = app.Ships.GetByCrew(c.Context(), crew.ID)
		}
		return c.JSON(models.NewSuccessResponse(crewSummary(crew, ship)))
	}
}

// ContentQuests lists the quest catalog.
func ContentQuests(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quests := app.Tables.Quests()
		out := make([]models.QuestSummary, 0, len(quests))
		for _, q := range quests {
			out = append(out, models.QuestSummary{
				ID:            q.ID,
				Name:          q.Name,
				Saga:          q.Saga,
				Arc:           q.Arc,
				Difficulty:    q.Difficulty,
				LevelRequired: q.LevelRequired,
				Description:   q.Description,
			})
		}
		return c.JSON(models.NewSuccessResponse(out))
	}
}

// ContentAllies lists the recruitable ally catalog.
func ContentAllies(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allies := app.Tables.Allies()
		out := make([]models.AllySummary, 0, len(allies))
		for _, a := range allies {
			out = append(out, models.AllySummary{
				ID:      a.ID,
				Name:    a.Name,
				Title:   a.Title,
				Rarity:  a.Rarity,
				Faction: a.Faction,
			})
		}
		return c.JSON(models.NewSuccessResponse(out))
	}
}

func characterSummary(ch *dbmodels.Character) models.CharacterSummary {
	return models.CharacterSummary{
		ID:      ch.ID,
		Name:    ch.Name,
		Race:    ch.Race,
		Origin:  ch.Origin,
		Dream:   ch.Dream,
		Faction: ch.Faction,
		Level:   ch.Level,
		Bounty:  ch.Bounty,
		CrewID:  ch.CrewID,
	}
}

func crewSummary(crew *dbmodels.Crew, ship *dbmodels.Ship) models.CrewSummary {
	out := models.CrewSummary{
		ID:         crew.ID,
		Name:       crew.Name,
		Level:      crew.Level,
		Reputation: crew.Reputation,
		Members:    len(crew.Members),
		Capacity:   crew.Capacity(),
	}
	if ship != nil {
		out.Ship = &models.ShipSummary{
			Name:       ship.Name,
			Type:       ship.Type,
			Durability: ship.Durability,
			MaxHP:      ship.MaxDurability,
			Upgrades:   ship.Upgrades,
		}
	}
	return out
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 100 {
		return defaultLeaderboardSize
	}
	return n
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(models.NewErrorResponse("NOT_FOUND", message))
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(models.NewErrorResponse("INTERNAL_ERROR", message))
}
