package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/melodia/internal/app"
	"github.com/llehouerou/melodia/internal/artwork"
	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/config"
	"github.com/llehouerou/melodia/internal/errmsg"
	"github.com/llehouerou/melodia/internal/lastfm"
	"github.com/llehouerou/melodia/internal/logging"
	"github.com/llehouerou/melodia/internal/mpris"
	"github.com/llehouerou/melodia/internal/notify"
	"github.com/llehouerou/melodia/internal/playback"
	"github.com/llehouerou/melodia/internal/player"
	"github.com/llehouerou/melodia/internal/state"
	"github.com/llehouerou/melodia/internal/stderr"
	"github.com/llehouerou/melodia/internal/watch"
)

// shutdownTimeout bounds releasing the audio resource on exit.
const shutdownTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("Error: %v\n", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpConfigLoad, err)
	}

	logCfg := cfg.GetLogConfig()
	log, logFile, err := logging.Open(logCfg.File, logCfg.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	// ALSA prints straight to fd 2 and would corrupt the TUI.
	if err := stderr.Start(log); err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = state.DefaultDBPath(); err != nil {
			return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
		}
	}
	stateMgr, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}
	defer stateMgr.Close()

	log.Info().Str("db", dbPath).Msg("starting")
	return runPlayer(cfg, stateMgr, dbPath, log)
}

func runPlayer(cfg *config.Config, stateMgr *state.Manager, dbPath string, log zerolog.Logger) error {
	ctx := context.Background()
	playbackCfg := cfg.GetPlaybackConfig()
	cat := catalog.New(stateMgr.DB())

	speaker := player.NewSpeaker()
	defer speaker.Close()
	speaker.SetVolume(playbackCfg.Volume)
	if vol, err := stateMgr.GetVolume(); err == nil && vol != nil {
		speaker.SetVolume(vol.Volume)
		speaker.SetMuted(vol.Muted)
	}

	ctrl := playback.New(speaker, cat, playback.Options{
		PollInterval: playbackCfg.PollInterval,
		Logger:       &log,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = ctrl.Close(ctx)
	}()

	if err := ctrl.Refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpCatalogLoad, err)
	}
	if err := app.RestoreSession(ctrl, stateMgr); err != nil {
		log.Warn().Err(err).Msg(string(errmsg.OpSessionRestore))
	}

	art := artwork.New(artwork.DefaultDir(), artwork.DefaultSize)

	if cfg.NotificationsEnabled() {
		closeNotify := startNotifications(ctrl, art, log)
		defer closeNotify()
	}

	if cfg.HasLastfmConfig() {
		stopScrobbler := startScrobbler(cfg.Lastfm, ctrl, stateMgr, log)
		defer stopScrobbler()
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(ctrl, speaker, art, log)
		if err != nil {
			log.Warn().Err(err).Msg("mpris unavailable")
		} else {
			defer adapter.Close()
		}
	}

	m := app.New(ctrl, cat, stateMgr, speaker, app.Options{
		SeekStep: playbackCfg.SeekStep,
		Logger:   &log,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Another process (melodia-catalog) may edit the catalog while we run.
	watcher, err := watch.New(dbPath, watch.DefaultDebounce, func() {
		p.Send(app.CatalogDirtyMsg{})
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("catalog watcher unavailable")
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	go probeDurations(cat, log)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(app.Model); ok {
		s := fm.Session()
		stateMgr.SaveSession(state.SessionState{TrackID: s.TrackID, Position: s.Position})
	}
	return nil
}

func startNotifications(ctrl *playback.Controller, art notify.ArtResolver, log zerolog.Logger) func() {
	notifier, err := notify.New()
	if err != nil {
		log.Warn().Err(err).Msg("notifications unavailable")
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	np := notify.NewNowPlaying(notifier, art, log)
	go np.Run(ctx, ctrl.Subscribe())
	return cancel
}

// startScrobbler reports plays to Last.fm once an account has been linked
// with melodia-catalog lastfm-login.
func startScrobbler(lcfg config.LastfmConfig, ctrl *playback.Controller, stateMgr *state.Manager, log zerolog.Logger) func() {
	sess, err := stateMgr.GetLastfmSession()
	if err != nil {
		log.Warn().Err(err).Msg("load lastfm session")
		return func() {}
	}
	if sess == nil {
		log.Info().Msg("lastfm configured but not linked")
		return func() {}
	}
	client := lastfm.New(lcfg.APIKey, lcfg.APISecret)
	client.SetSessionKey(sess.SessionKey)

	ctx, cancel := context.WithCancel(context.Background())
	s := lastfm.NewScrobbler(client, stateMgr, lastfm.ReadLocatorTags, log)
	go s.Run(ctx, ctrl.Subscribe())
	log.Info().Str("user", sess.Username).Msg("scrobbling enabled")
	return cancel
}

// probeDurations caches the duration of tracks added without one. The
// watcher picks up the writes and refreshes the view.
func probeDurations(cat *catalog.Catalog, log zerolog.Logger) {
	res, err := cat.Probe(context.Background(), player.ProbeDuration)
	if err != nil {
		log.Warn().Err(err).Msg(string(errmsg.OpCatalogProbe))
		return
	}
	for id, perr := range res.Failed {
		log.Debug().Int64("track", id).Err(perr).Msg(string(errmsg.OpCatalogProbe))
	}
	if res.Probed > 0 {
		log.Info().Int("count", res.Probed).Msg("probed track durations")
	}
}
