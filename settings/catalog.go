package settings

func f(v float64) *float64 { return &v }

// DefaultCatalog returns the built-in lobby setting catalog. The slice is
// freshly allocated on every call so callers may modify it.
func DefaultCatalog() []Definition {
	return []Definition{
		// Lobby
		{
			Key:     "lobbyCode",
			Title:   "Lobby Code",
			Bin:     BinLobby,
			Type:    TypeString,
			Default: "",
			Help:    "Five-character room code shown to joining players.",
			Tags:    []string{"room"},
		},
		{
			Key:     "voiceChat",
			Title:   "Voice Chat",
			Bin:     BinLobby,
			Type:    TypeBool,
			Default: true,
			Help:    "Whether in-lobby voice chat is enabled.",
			Tags:    []string{"room", "audio"},
		},
		{
			Key:     "maximumPlayers",
			Title:   "Maximum Players",
			Bin:     BinLobby,
			Type:    TypeInt,
			Default: 10,
			Min:     f(4),
			Max:     f(10),
			Help:    "Player cap for the lobby.",
			Tags:    []string{"room"},
		},
		{
			Key:     "roleSelection",
			Title:   "Role Selection",
			Bin:     BinLobby,
			Type:    TypeEnum,
			Default: "random",
			Choices: []string{"random", "preference"},
			Help:    "How roles are assigned when the match starts.",
			Tags:    []string{"room", "roles"},
		},

		// Player
		{
			Key:     "melloEnabled",
			Title:   "Mello",
			Bin:     BinPlayer,
			Type:    TypeBool,
			Default: true,
			Help:    "Whether the Mello role can appear on the investigator team.",
			Tags:    []string{"roles"},
		},
		{
			Key:     "kiraFollowerEnabled",
			Title:   "Kira Follower",
			Bin:     BinPlayer,
			Type:    TypeBool,
			Default: true,
			Help:    "Whether the Kira Follower role can appear on the Kira team.",
			Tags:    []string{"roles"},
		},
		{
			Key:     "blackNotebooks",
			Title:   "Black Notebooks",
			Bin:     BinPlayer,
			Type:    TypeBool,
			Default: false,
			Help:    "Give every player a black notebook, hiding who holds the real one.",
			Tags:    []string{"roles", "notebook"},
		},

		// Gameplay
		{
			Key:     "dayNightSeconds",
			Title:   "Day/Night Seconds",
			Bin:     BinGameplay,
			Type:    TypeInt,
			Default: 45,
			Min:     f(30),
			Max:     f(120),
			Help:    "Length of each day and night phase, in seconds.",
			Tags:    []string{"pacing"},
		},
		{
			Key:     "meetingSeconds",
			Title:   "Meeting Seconds",
			Bin:     BinGameplay,
			Type:    TypeInt,
			Default: 90,
			Min:     f(30),
			Max:     f(240),
			Help:    "Length of each meeting phase, in seconds.",
			Tags:    []string{"pacing"},
		},
		{
			Key:     "numberOfTasks",
			Title:   "Number of Tasks",
			Bin:     BinGameplay,
			Type:    TypeInt,
			Default: 2,
			Min:     f(1),
			Max:     f(3),
			Help:    "Tasks assigned to each player per phase.",
			Tags:    []string{"tasks"},
		},
		{
			Key:     "numberOfInputs",
			Title:   "Number of Inputs",
			Bin:     BinGameplay,
			Type:    TypeInt,
			Default: 2,
			Min:     f(2),
			Max:     f(5),
			Help:    "Inputs required to complete a task.",
			Tags:    []string{"tasks"},
		},
		{
			Key:     "kiraProgressMultiplier",
			Title:   "Kira Progress Multiplier",
			Bin:     BinGameplay,
			Type:    TypeFloat,
			Default: 1.0,
			Min:     f(0.5),
			Max:     f(2.0),
			Help:    "Scales how quickly the Kira team's New World progress fills.",
			Tags:    []string{"balance", "progress"},
		},
		{
			Key:     "teamLProgressMultiplier",
			Title:   "Team L Progress Multiplier",
			Bin:     BinGameplay,
			Type:    TypeFloat,
			Default: 1.0,
			Min:     f(0.5),
			Max:     f(2.0),
			Help:    "Scales how quickly the investigation progress fills.",
			Tags:    []string{"balance", "progress"},
		},
		{
			Key:     "approachWarning",
			Title:   "Approach Warning",
			Bin:     BinGameplay,
			Type:    TypeBool,
			Default: true,
			Help:    "Warn players when another player approaches them from behind.",
			Tags:    []string{"awareness"},
		},
		{
			Key:     "canvasTasks",
			Title:   "Canvas Tasks",
			Bin:     BinGameplay,
			Type:    TypeBool,
			Default: true,
			Help:    "Enable the canvassing task used to gather intel on other players.",
			Tags:    []string{"tasks"},
		},
	}
}
