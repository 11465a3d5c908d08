// Package routepath stores canonical HTTP paths for the planner API.
package routepath

const (
	Health = "/up"
	Lineup = "/lineup"

	APIPrefix  = "/api/"
	Acts       = "/api/acts"
	Season     = "/api/season"
	Modes      = "/api/modes"
	Enemies    = "/api/enemies"
	Characters = "/api/characters"
	Regions    = "/api/regions"
	Tasks      = "/api/tasks"

	LineupState   = "/api/lineup"
	LineupMode    = "/api/lineup/mode"
	LineupRoster  = "/api/lineup/roster"
	LineupPlace   = "/api/lineup/placements"
	LineupEnemies = "/api/lineup/enemies"
	LineupView    = "/api/lineup/view"

	MeCharacters      = "/api/me/characters"
	MeCharacterToggle = "/api/me/characters/{characterID}/toggle"
	MeTasks           = "/api/me/tasks"
	MeTaskToggle      = "/api/me/tasks/{taskID}/toggle"
	MeTaskPartToggle  = "/api/me/tasks/{taskID}/parts/{part}/toggle"

	AdminLogin = "/api/admin/login"

	AdminActs       = "/api/admin/acts"
	AdminAct        = "/api/admin/acts/{actID}"
	AdminModes      = "/api/admin/modes"
	AdminMode       = "/api/admin/modes/{modeID}"
	AdminEnemies    = "/api/admin/enemies"
	AdminEnemy      = "/api/admin/enemies/{enemyID}"
	AdminCharacters = "/api/admin/characters"
	AdminCharacter  = "/api/admin/characters/{characterID}"
	AdminRegions    = "/api/admin/regions"
	AdminRegion     = "/api/admin/regions/{regionID}"
	AdminTasks      = "/api/admin/tasks"
	AdminTask       = "/api/admin/tasks/{taskID}"

	AdminSeason           = "/api/admin/season"
	AdminSeasonElements   = "/api/admin/season/elements"
	AdminSeasonOpening    = "/api/admin/season/opening"
	AdminSeasonGuests     = "/api/admin/season/guests"
	AdminSeasonVariations = "/api/admin/season/acts/{actID}/variations"
	AdminSeasonVariation  = "/api/admin/season/acts/{actID}/variations/{index}"
	AdminSeasonEnemies    = "/api/admin/season/acts/{actID}/enemies"
)
