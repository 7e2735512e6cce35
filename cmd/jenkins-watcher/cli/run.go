package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/davarch/jenkins-watcher/internal/application"
	"github.com/davarch/jenkins-watcher/internal/infrastructure/cache_fs"
	"github.com/davarch/jenkins-watcher/internal/infrastructure/config"
	"github.com/davarch/jenkins-watcher/internal/infrastructure/jenkins_http"
	"github.com/davarch/jenkins-watcher/internal/infrastructure/logging"
	"github.com/davarch/jenkins-watcher/internal/infrastructure/notify_libnotify"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the polling watcher",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
			os.Exit(1)
		}

		log := logging.New(cfg.Log.Dir)
		defer func() { _ = log.Sync() }()

		provider := config.NewProvider(cfg)
		feed := jenkins_http.New(cfg.Jenkins.BaseURL, cfg.Jenkins.Username, cfg.Jenkins.APIToken, cfg.Jenkins.Timeout)
		note := notify_libnotify.NewSoft()
		cache := cache_fs.New(cfg.Cache.Path)

		disp := application.NewDispatcher(note)
		poller := application.NewPoller(log, feed, provider, disp, cache)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		sched := application.NewScheduler(ctx, log, poller, provider)

		log.Info("start",
			zap.String("version", version),
			zap.String("jenkins", cfg.Jenkins.BaseURL),
			zap.Int("refresh_minutes", cfg.Poll.RefreshPeriodMinutes),
			zap.String("cache", cfg.Cache.Path),
			zap.String("refresh_file", cfg.Poll.RefreshFile),
		)

		sched.Init()
		sched.InitScheduledJobs()

		watchAndReload(cfgPath, log, provider, sched)
		watchRefreshFile(cfg.Poll.RefreshFile, log, sched)

		<-ctx.Done()
		sched.Dispose()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// watchAndReload re-applies the config when the file changes: the settings
// provider is swapped and the recurring schedule reconfigured with the new
// period. Events are debounced since editors fire several per save.
func watchAndReload(cfgPath string, log *zap.Logger, provider *config.Provider, sched *application.Scheduler) {
	if cfgPath == "" {
		return
	}

	dir := filepath.Dir(cfgPath)
	base := filepath.Base(cfgPath)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("fsnotify init failed", zap.Error(err))
		return
	}

	go func() {
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		fire := func() {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				log.Warn("config reload failed", zap.Error(err))
				return
			}
			provider.Swap(cfg)
			sched.InitScheduledJobs()
			log.Info("config reloaded", zap.Int("refresh_minutes", cfg.Poll.RefreshPeriodMinutes))
		}

		startTimer := func() {
			if timer == nil {
				timer = time.AfterFunc(300*time.Millisecond, fire)
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(300 * time.Millisecond)
		}

		if err := w.Add(dir); err != nil {
			log.Warn("fsnotify add dir failed", zap.String("dir", dir), zap.Error(err))
			return
		}

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if filepath.Base(ev.Name) != base {
					continue
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					startTimer()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()
}

// watchRefreshFile triggers an immediate, displayed poll cycle whenever the
// refresh file appears (the refresh command touches it). The file is
// removed afterwards so the next touch fires again.
func watchRefreshFile(path string, log *zap.Logger, sched *application.Scheduler) {
	if path == "" {
		return
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("refresh dir create failed", zap.String("dir", dir), zap.Error(err))
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("fsnotify init failed", zap.Error(err))
		return
	}

	go func() {
		defer func() { _ = w.Close() }()

		if err := w.Add(dir); err != nil {
			log.Warn("fsnotify add dir failed", zap.String("dir", dir), zap.Error(err))
			return
		}

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if filepath.Base(ev.Name) != base {
					continue
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					_ = os.Remove(path)
					if sched.TriggerOnce(true) {
						log.Info("manual refresh triggered")
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()
}
