// Package boardsvc serves the authoritative move-validation endpoints:
// POST /move, POST /fen, GET /reset. It owns no game state; every
// request carries the position it talks about.
package boardsvc

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/obslog"
	"github.com/park285/boardcore/internal/rules"
	"github.com/park285/boardcore/pkg/boarddto"
)

type API struct{}

func NewAPI() *API { return &API{} }

// Register mounts the endpoints and the permissive CORS rules the
// browser front end depends on.
func (a *API) Register(r gin.IRouter) {
	r.Use(corsMiddleware())
	r.POST("/move", a.Move)
	r.POST("/fen", a.Fen)
	r.GET("/reset", a.Reset)
}

// Move validates and applies one move. An illegal or unparseable move
// yields valid=false with the request position echoed unchanged.
func (a *API) Move(ctx *gin.Context) {
	var req boarddto.MoveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eng, err := rules.NewFromFEN(req.FEN)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid fen"})
		return
	}

	if err := eng.ApplyUCI(req.Move); err != nil {
		obslog.L().Debug("svc_move_rejected", zap.String("move", req.Move), zap.Error(err))
		ctx.JSON(http.StatusOK, moveResponse(eng, req.FEN, false))
		return
	}
	obslog.L().Info("svc_move", zap.String("move", req.Move), zap.String("fen", eng.FEN()))
	ctx.JSON(http.StatusOK, moveResponse(eng, eng.FEN(), true))
}

// Fen reports the legal moves and status flags of a position.
func (a *API) Fen(ctx *gin.Context) {
	var req boarddto.FenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eng, err := rules.NewFromFEN(req.FEN)
	if err != nil {
		ctx.JSON(http.StatusOK, boarddto.FenResponse{Valid: false, Error: "Invalid FEN"})
		return
	}
	ctx.JSON(http.StatusOK, boarddto.FenResponse{
		Valid:       true,
		LegalMoves:  eng.LegalMoves(),
		IsCheck:     eng.InCheck(),
		IsCheckmate: eng.IsCheckmate(),
		IsStalemate: eng.IsStalemate(),
		IsGameOver:  eng.IsGameOver(),
	})
}

// Reset returns the starting position and its legal moves.
func (a *API) Reset(ctx *gin.Context) {
	eng := rules.New()
	ctx.JSON(http.StatusOK, boarddto.ResetResponse{
		FEN:        eng.FEN(),
		LegalMoves: eng.LegalMoves(),
	})
}

func moveResponse(eng *rules.Engine, fen string, valid bool) boarddto.MoveResponse {
	return boarddto.MoveResponse{
		FEN:         fen,
		Valid:       valid,
		LegalMoves:  eng.LegalMoves(),
		IsCheck:     eng.InCheck(),
		IsCheckmate: eng.IsCheckmate(),
		IsStalemate: eng.IsStalemate(),
		IsGameOver:  eng.IsGameOver(),
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
