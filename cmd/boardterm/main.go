package main

import (
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/park285/boardcore/internal/board"
	"github.com/park285/boardcore/internal/config"
	"github.com/park285/boardcore/internal/obslog"
	"github.com/park285/boardcore/internal/rules"
	"github.com/park285/boardcore/internal/syncclient"
	"github.com/park285/boardcore/internal/termui"
)

// localRules backs the sync client's offline fallback.
type localRules struct{}

func (localRules) LegalMovesFEN(fen string) ([]string, error) { return rules.LegalMovesFEN(fen) }
func (localRules) StartFEN() string                           { return rules.StartFEN }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// The terminal owns stdout; logs go to a file or nowhere.
	if os.Getenv("LOG_TO_CONSOLE") == "" {
		os.Setenv("LOG_TO_CONSOLE", "false")
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.L().Sync()

	client := syncclient.NewClient(cfg.ServiceURL, localRules{},
		syncclient.WithTimeout(cfg.RequestTimeout),
		syncclient.WithRetry(cfg.RetryMax),
	)
	eng := board.NewEngine(client)
	if cfg.Flipped {
		eng.ToggleFlip()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen error: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init error: %v", err)
	}

	if err := termui.New(screen, eng).Run(); err != nil {
		log.Fatalf("ui error: %v", err)
	}
}
