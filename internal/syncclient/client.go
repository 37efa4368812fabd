// Package syncclient keeps the local position and legal-move cache in
// step with the remote move-validation service. Every call is one HTTP
// round-trip; refresh and reset degrade to a locally computed legal-move
// enumeration when the service is unreachable, while move submission
// never falls back (committing a move without server confirmation would
// desynchronize any server-side record).
package syncclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/boardcore/internal/obslog"
	"github.com/park285/boardcore/pkg/boarddto"
)

// Fallback is the embedded rules engine the client degrades to when the
// service cannot answer a refresh or reset.
type Fallback interface {
	LegalMovesFEN(fen string) ([]string, error)
	StartFEN() string
}

// Client talks to the move-validation service.
type Client struct {
	baseURL  string
	http     *fasthttp.Client
	timeout  time.Duration
	retryMax int
	fallback Fallback

	// moveSeq stamps move requests; the latest issued value is the only
	// one whose reply may be applied.
	moveSeq atomic.Uint64
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func NewClient(baseURL string, fallback Fallback, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 8},
		timeout:  10 * time.Second,
		retryMax: 3,
		fallback: fallback,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestMove submits a candidate move for validation. The reply carries
// the sequence number issued for this request; callers must discard it
// unless the number is still the latest (see LatestMoveSeq).
func (c *Client) RequestMove(ctx context.Context, fen, move string) MoveReply {
	seq := c.moveSeq.Add(1)
	var resp boarddto.MoveResponse
	err := c.doJSON(ctx, fasthttp.MethodPost, "/move", boarddto.MoveRequest{FEN: fen, Move: move}, &resp, false)
	if err != nil {
		obslog.L().Warn("sync_move_transport_error",
			zap.Uint64("seq", seq),
			zap.String("move", move),
			zap.Error(err),
		)
		return MoveReply{Status: StatusTransportError, Seq: seq, Err: err}
	}
	if !resp.Valid {
		return MoveReply{Status: StatusInvalid, Seq: seq}
	}
	return MoveReply{
		Status:      StatusOK,
		Seq:         seq,
		FEN:         resp.FEN,
		LegalMoves:  resp.LegalMoves,
		IsCheck:     resp.IsCheck,
		IsCheckmate: resp.IsCheckmate,
		IsStalemate: resp.IsStalemate,
		IsGameOver:  resp.IsGameOver,
		Verified:    true,
	}
}

// LatestMoveSeq returns the sequence number of the most recently issued
// move request. A MoveReply whose Seq differs is superseded and must be
// discarded, never applied.
func (c *Client) LatestMoveSeq() uint64 { return c.moveSeq.Load() }

// RefreshLegalMoves fetches the legal moves for fen. On transport
// failure or a malformed response it answers from the embedded rules
// engine with Verified=false so the board stays usable offline.
func (c *Client) RefreshLegalMoves(ctx context.Context, fen string) FenReply {
	var resp boarddto.FenResponse
	err := c.doJSON(ctx, fasthttp.MethodPost, "/fen", boarddto.FenRequest{FEN: fen}, &resp, true)
	if err == nil {
		if !resp.Valid {
			return FenReply{Status: StatusInvalid}
		}
		return FenReply{Status: StatusOK, LegalMoves: resp.LegalMoves, Verified: true}
	}

	moves, ferr := c.fallback.LegalMovesFEN(fen)
	if ferr != nil {
		return FenReply{Status: StatusTransportError, Err: fmt.Errorf("refresh failed and fallback rejected position: %w", ferr)}
	}
	obslog.L().Info("sync_fallback",
		zap.String("op", "refresh"),
		zap.Int("legal_moves", len(moves)),
		zap.Error(err),
	)
	return FenReply{Status: StatusOK, LegalMoves: moves, Verified: false}
}

// ResetGame asks the service for a fresh game. Degrades to the local
// starting position on transport failure, with Verified=false.
func (c *Client) ResetGame(ctx context.Context) ResetReply {
	var resp boarddto.ResetResponse
	err := c.doJSON(ctx, fasthttp.MethodGet, "/reset", nil, &resp, true)
	if err == nil {
		return ResetReply{Status: StatusOK, FEN: resp.FEN, LegalMoves: resp.LegalMoves, Verified: true}
	}

	start := c.fallback.StartFEN()
	moves, ferr := c.fallback.LegalMovesFEN(start)
	if ferr != nil {
		return ResetReply{Status: StatusTransportError, Err: fmt.Errorf("reset failed and fallback rejected start position: %w", ferr)}
	}
	obslog.L().Info("sync_fallback", zap.String("op", "reset"), zap.Error(err))
	return ResetReply{Status: StatusOK, FEN: start, LegalMoves: moves, Verified: false}
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request %s: %w", path, err)
		} else if status := resp.StatusCode(); status < 200 || status >= 300 {
			lastErr = fmt.Errorf("service error: %s status=%d", path, status)
		} else if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				// Malformed JSON is not retryable; the service is broken,
				// not slow.
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		} else {
			return nil
		}

		if attempt < attempts {
			if err := c.sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
				return lastErr
			}
		}
	}
	return lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}
