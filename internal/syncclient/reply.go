package syncclient

// ReplyStatus tags every protocol result instead of duck-typed payload
// fields: a reply is OK, rejected by the service, or never answered.
type ReplyStatus uint8

const (
	StatusOK ReplyStatus = iota
	StatusInvalid
	StatusTransportError
)

func (s ReplyStatus) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusTransportError:
		return "transport_error"
	}
	return "ok"
}

// MoveReply is the tagged result of RequestMove. Verified is always true
// on StatusOK: moves are never answered by the local fallback.
type MoveReply struct {
	Status      ReplyStatus
	Seq         uint64
	FEN         string
	LegalMoves  []string
	IsCheck     bool
	IsCheckmate bool
	IsStalemate bool
	IsGameOver  bool
	Verified    bool
	Err         error
}

// FenReply is the tagged result of RefreshLegalMoves. Verified is false
// when the legal moves were computed locally because the service could
// not answer.
type FenReply struct {
	Status     ReplyStatus
	LegalMoves []string
	Verified   bool
	Err        error
}

// ResetReply is the tagged result of ResetGame.
type ResetReply struct {
	Status     ReplyStatus
	FEN        string
	LegalMoves []string
	Verified   bool
	Err        error
}
