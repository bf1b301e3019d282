package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/depeter/mediahand/assets/icon"
	"github.com/depeter/mediahand/internal/app"
	"github.com/depeter/mediahand/internal/config"
	"github.com/depeter/mediahand/internal/jellyfin"
	"github.com/depeter/mediahand/internal/library"
	"github.com/depeter/mediahand/internal/log"
	"github.com/depeter/mediahand/internal/ui"
)

const syncTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/mediahand/config.toml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "mediahand:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Configure(log.Config{Level: cfg.Log.Level})
	logger := log.WithComponent("main")
	if configPath == "" {
		writeDefaultConfig(cfg)
	}

	if err := ui.InitFonts(goregular.TTF); err != nil {
		return fmt.Errorf("init fonts: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	store, err := library.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer store.Close()

	if cfg.Library.Root != "" {
		n, err := library.NewScanner(store, cfg.Playback.Volume).ScanRoot(context.Background(), cfg.Library.Root)
		if err != nil {
			logger.Warn().Err(err).Str("root", cfg.Library.Root).Msg("library scan failed")
		} else {
			logger.Info().Int("entries", n).Str("root", cfg.Library.Root).Msg("library scanned")
		}
	}

	locators := library.Locators{library.SourceLocal: library.LocalLocator{}}
	var jf *jellyfin.Client
	if cfg.Jellyfin.Enabled() {
		jf = jellyfin.NewClient(cfg.Jellyfin.URL, cfg.Jellyfin.Token, cfg.Jellyfin.UserID)
		locators[library.SourceJellyfin] = jf
	}

	game, err := app.NewGame(cfg, store, locators, jf)
	if err != nil {
		return err
	}
	defer game.Close()

	if jf != nil {
		go syncJellyfin(game, jf, store, cfg.Playback.Volume)
	}

	// Configure window
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("Mediahand")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	return ebiten.RunGame(game)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// writeDefaultConfig leaves an editable config.toml behind on first run.
func writeDefaultConfig(cfg *config.Config) {
	logger := log.WithComponent("config")
	path, err := config.ConfigPath()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err := cfg.Save(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("write default config")
		return
	}
	logger.Info().Str("path", path).Msg("wrote default config")
}

// syncJellyfin pulls the server's series into the store and refreshes the
// list on the UI thread when done.
func syncJellyfin(game *app.Game, jf *jellyfin.Client, store *library.Store, volume int) {
	logger := log.WithComponent("jellyfin")
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	n, err := jf.Sync(ctx, store, volume)
	if err != nil {
		logger.Warn().Err(err).Str("server", jf.ServerURL()).Msg("sync failed")
		game.Runner().Run(func() {
			game.Warn("Jellyfin", fmt.Sprintf("Could not sync with %s: %v", jf.ServerURL(), err))
		})
		return
	}
	logger.Info().Int("series", n).Msg("sync finished")
	game.Runner().Run(func() {
		if game.State == app.StateBrowse {
			game.RefreshEntries()
		}
	})
}
