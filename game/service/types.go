package service

// Stats summarises a session's play so far
type Stats struct {
	Size       int    `json:"size"`
	Rounds     int    `json:"rounds"`
	Moves      int    `json:"moves"`
	TotalMoves int    `json:"total_moves"`
	Wins       int    `json:"wins"`
	Manhattan  int    `json:"manhattan"`
	Misplaced  int    `json:"misplaced"`
	LoadedFrom string `json:"loaded_from,omitempty"`
	SavedAs    string `json:"saved_as,omitempty"`
}
