package boardsvc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/park285/boardcore/internal/rules"
	"github.com/park285/boardcore/pkg/boarddto"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAPI().Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body, out any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestMoveValid(t *testing.T) {
	srv := newTestServer(t)

	var resp boarddto.MoveResponse
	code := postJSON(t, srv.URL+"/move", boarddto.MoveRequest{FEN: rules.StartFEN, Move: "e2e4"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !resp.Valid {
		t.Fatal("e2e4 from start rejected")
	}
	if resp.FEN == rules.StartFEN {
		t.Fatal("fen not advanced")
	}
	found := false
	for _, m := range resp.LegalMoves {
		if m == "e7e5" {
			found = true
		}
	}
	if !found {
		t.Fatalf("e7e5 missing from reply moves: %v", resp.LegalMoves)
	}
}

func TestMoveIllegalEchoesFen(t *testing.T) {
	srv := newTestServer(t)

	var resp boarddto.MoveResponse
	postJSON(t, srv.URL+"/move", boarddto.MoveRequest{FEN: rules.StartFEN, Move: "e2e5"}, &resp)
	if resp.Valid {
		t.Fatal("illegal move accepted")
	}
	if resp.FEN != rules.StartFEN {
		t.Fatalf("fen = %q, want request fen echoed", resp.FEN)
	}
	if len(resp.LegalMoves) != 20 {
		t.Fatalf("reply carries %d legal moves, want the current position's 20", len(resp.LegalMoves))
	}
}

func TestMoveBadFen(t *testing.T) {
	srv := newTestServer(t)
	code := postJSON(t, srv.URL+"/move", boarddto.MoveRequest{FEN: "garbage", Move: "e2e4"}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestFen(t *testing.T) {
	srv := newTestServer(t)

	var resp boarddto.FenResponse
	postJSON(t, srv.URL+"/fen", boarddto.FenRequest{FEN: rules.StartFEN}, &resp)
	if !resp.Valid || len(resp.LegalMoves) != 20 {
		t.Fatalf("start position reply = %+v", resp)
	}

	var bad boarddto.FenResponse
	postJSON(t, srv.URL+"/fen", boarddto.FenRequest{FEN: "not a fen"}, &bad)
	if bad.Valid || bad.Error == "" {
		t.Fatalf("garbage fen reply = %+v, want valid=false with error", bad)
	}
}

func TestReset(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/reset")
	if err != nil {
		t.Fatalf("GET /reset: %v", err)
	}
	defer resp.Body.Close()
	var out boarddto.ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.FEN != rules.StartFEN {
		t.Fatalf("reset fen = %q", out.FEN)
	}
	if len(out.LegalMoves) != 20 {
		t.Fatalf("reset legal moves = %d", len(out.LegalMoves))
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/move", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("CORS header missing")
	}
}
