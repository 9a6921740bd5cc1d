package models

// APIResponse is the envelope every endpoint replies with.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code next to the human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewSuccessResponse(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func NewErrorResponse(code, message string) APIResponse {
	return APIResponse{Success: false, Error: &APIError{Code: code, Message: message}}
}

// CharacterSummary is the public view of a character. Inventory stays private
// to the bot.
type CharacterSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Race    string `json:"race"`
	Origin  string `json:"origin"`
	Dream   string `json:"dream"`
	Faction string `json:"faction"`
	Level   int    `json:"level"`
	Bounty  int64  `json:"bounty"`
	CrewID  string `json:"crew_id,omitempty"`
}

// CrewSummary is the public view of a crew with its ship and member count.
type CrewSummary struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Level      int          `json:"level"`
	Reputation int64        `json:"reputation"`
	Members    int          `json:"members"`
	Capacity   int          `json:"capacity"`
	Ship       *ShipSummary `json:"ship,omitempty"`
}

// ShipSummary is the public view of a crew's ship.
type ShipSummary struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Durability int      `json:"durability"`
	MaxHP      int      `json:"max_durability"`
	Upgrades   []string `json:"upgrades,omitempty"`
}

// QuestSummary is the public view of a content quest.
type QuestSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Saga          string `json:"saga"`
	Arc           string `json:"arc"`
	Difficulty    string `json:"difficulty"`
	LevelRequired int    `json:"level_required"`
	Description   string `json:"description"`
}

// AllySummary is the public view of a recruitable ally.
type AllySummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Rarity  string `json:"rarity"`
	Faction string `json:"faction,omitempty"`
}
