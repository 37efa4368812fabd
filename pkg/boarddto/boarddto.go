// Package boarddto carries the JSON wire types of the move-validation
// service, shared by the client and the service handlers.
package boarddto

// MoveRequest asks the service to validate and apply a single move, in
// from+to[+promotion] form (e.g. "e2e4", "e7e8q"), against fen.
type MoveRequest struct {
	FEN  string `json:"fen"`
	Move string `json:"move"`
}

// FenRequest asks for the legal moves and status flags of a position.
type FenRequest struct {
	FEN string `json:"fen"`
}

// MoveResponse reports the verdict for a MoveRequest. On valid=false the
// fen echoes the request position unchanged.
type MoveResponse struct {
	FEN         string   `json:"fen"`
	Valid       bool     `json:"valid"`
	LegalMoves  []string `json:"legal_moves"`
	IsCheck     bool     `json:"is_check"`
	IsCheckmate bool     `json:"is_checkmate"`
	IsStalemate bool     `json:"is_stalemate"`
	IsGameOver  bool     `json:"is_game_over"`
}

// FenResponse reports position info for a FenRequest.
type FenResponse struct {
	Valid       bool     `json:"valid"`
	LegalMoves  []string `json:"legal_moves,omitempty"`
	IsCheck     bool     `json:"is_check"`
	IsCheckmate bool     `json:"is_checkmate"`
	IsStalemate bool     `json:"is_stalemate"`
	IsGameOver  bool     `json:"is_game_over"`
	Error       string   `json:"error,omitempty"`
}

// ResetResponse returns the starting position and its legal moves.
type ResetResponse struct {
	FEN         string   `json:"fen"`
	LegalMoves  []string `json:"legal_moves"`
	IsCheck     bool     `json:"is_check"`
	IsCheckmate bool     `json:"is_checkmate"`
	IsStalemate bool     `json:"is_stalemate"`
	IsGameOver  bool     `json:"is_game_over"`
}
