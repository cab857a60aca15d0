package main

import (
	"fmt"
	"os"
	"time"

	"sandglass/internal/core/model"
	"sandglass/internal/core/ticktimer"
	"sandglass/internal/logging"
	"sandglass/internal/storage"
	"sandglass/internal/ui/preferences"
	"sandglass/internal/ui/timerview"
	"sandglass/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "Sandglass"

type options struct {
	duration     time.Duration
	delay        time.Duration
	preElapsed   time.Duration
	tickInterval time.Duration
	countdown    bool
	repeat       bool
	preset       string
	savePreset   string
	logLevel     string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sandglass",
		Short: "Desktop tick timer with countdown, repeat and pause support",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.DurationVar(&opts.duration, "duration", time.Minute, "total timer duration")
	flags.DurationVar(&opts.delay, "delay", 0, "delay before ticking starts")
	flags.DurationVar(&opts.preElapsed, "pre-elapsed", 0, "time treated as already elapsed")
	flags.DurationVar(&opts.tickInterval, "tick-interval", model.DefaultTickInterval, "advance applied per tick")
	flags.BoolVar(&opts.countdown, "countdown", false, "count down from the duration instead of up")
	flags.BoolVar(&opts.repeat, "repeat", false, "restart the timer when it completes")
	flags.StringVar(&opts.preset, "preset", "", "load a named preset as the base configuration")
	flags.StringVar(&opts.savePreset, "save-preset", "", "store the resulting configuration under this name and exit")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	level, known := logging.ParseLevel(opts.logLevel)
	logger := logging.New(level)
	defer func() {
		_ = logger.Sync()
	}()
	if !known {
		logger.Warnw("unknown log level, using info", "level", opts.logLevel)
	}

	config, err := resolveConfig(cmd, opts, logger)
	if err != nil {
		return err
	}

	if opts.savePreset != "" {
		return storePreset(opts.savePreset, config, logger)
	}

	logger.Infow("starting timer",
		"duration", config.Duration,
		"tick_interval", config.TickInterval,
		"countdown", config.Countdown,
		"repeat", config.Repeats,
	)

	runApp(config, logger)
	return nil
}

// resolveConfig builds the timer configuration from the selected preset
// and any explicitly set flags, then validates it.
func resolveConfig(cmd *cobra.Command, opts *options, logger *zap.SugaredLogger) (model.TimerConfig, error) {
	config := model.DefaultTimerConfig()

	presets, err := storage.LoadPresets(appName)
	if err != nil {
		logger.Warnw("could not load presets", "error", err)
	}
	if opts.preset != "" {
		preset, ok := presets[opts.preset]
		if !ok {
			return config, fmt.Errorf("unknown preset %q", opts.preset)
		}
		config = preset
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		config.Duration = opts.duration
	}
	if flags.Changed("delay") {
		config.Delay = opts.delay
	}
	if flags.Changed("pre-elapsed") {
		config.PreElapsed = opts.preElapsed
	}
	if flags.Changed("tick-interval") {
		config.TickInterval = opts.tickInterval
	}
	if flags.Changed("countdown") {
		config.Countdown = opts.countdown
	}
	if flags.Changed("repeat") {
		config.Repeats = opts.repeat
	}

	config = config.Normalized()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func storePreset(name string, config model.TimerConfig, logger *zap.SugaredLogger) error {
	presets, err := storage.LoadPresets(appName)
	if err != nil {
		logger.Warnw("could not load presets", "error", err)
	}
	presets[name] = config
	if err := storage.SavePresets(appName, presets); err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	logger.Infow("preset saved", "name", name)
	return nil
}

// session bundles one machine/driver pair. Done is terminal, so a
// restart builds a fresh session instead of rewinding the old one.
type session struct {
	machine *ticktimer.Machine
	driver  *ticktimer.Driver
}

func runApp(config model.TimerConfig, logger *zap.SugaredLogger) {
	fyneApp := app.NewWithID("com.sandglass.app")

	var trayManager *tray.Manager
	var view *timerview.Window
	var current *session
	paused := false

	startSession := func() {
		current = newSession(config, view, trayManager, logger)
		paused = false
		current.driver.Start()
	}

	togglePause := func() {
		if current == nil || current.machine.Done() {
			return
		}
		if paused {
			current.driver.Resume()
		} else {
			current.driver.Pause()
		}
		paused = !paused
		view.SetPaused(paused)
		if trayManager != nil {
			trayManager.SetPaused(paused)
		}
	}

	restart := func() {
		if current != nil {
			current.driver.Stop()
			current.machine.Cancel()
		}
		startSession()
		view.Reset(config.InitialElapsed(), initialProgress(config))
		if trayManager != nil {
			trayManager.SetRunning()
		}
	}

	quit := func() {
		if current != nil {
			current.driver.Stop()
		}
		fyneApp.Quit()
	}

	view = timerview.New(fyneApp, appName, timerview.Callbacks{
		OnTogglePause: togglePause,
		OnRestart:     restart,
		OnQuit:        quit,
	})

	prefsWindow := preferences.New(fyneApp, config, func(updated model.TimerConfig) {
		config = updated
		presets, err := storage.LoadPresets(appName)
		if err != nil {
			logger.Warnw("could not load presets", "error", err)
		}
		presets[storage.DefaultPresetName] = updated
		if err := storage.SavePresets(appName, presets); err != nil {
			logger.Warnw("could not save presets", "error", err)
		}
		restart()
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowTimer:   view.Show,
			OnPreferences: prefsWindow.Show,
			OnTogglePause: togglePause,
			OnRestart:     restart,
			OnQuit:        quit,
		})
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	view.Reset(config.InitialElapsed(), initialProgress(config))
	startSession()
	view.Show()
	fyneApp.Run()
}

func newSession(config model.TimerConfig, view *timerview.Window, trayManager *tray.Manager, logger *zap.SugaredLogger) *session {
	total := config.Duration.Seconds()
	lastSecond := -1

	machine, err := ticktimer.New(config, func(elapsed time.Duration) {
		progress := 1.0
		if total > 0 {
			progress = elapsed.Seconds() / total
		}
		second := int(elapsed.Seconds())
		updateTray := second != lastSecond
		lastSecond = second

		fyne.Do(func() {
			view.SetValue(elapsed, progress)
			if updateTray && trayManager != nil {
				trayManager.SetStatus(formatStatus(config, elapsed))
			}
		})
	})
	if err != nil {
		logger.Fatalw("invalid timer config", "error", err)
	}

	driver := ticktimer.NewDriver(machine, ticktimer.DriverOptions{
		OnDone: func() {
			logger.Infow("timer finished", "elapsed", machine.Elapsed())
			fyne.Do(func() {
				view.SetFinished()
				if trayManager != nil {
					trayManager.SetFinished()
				}
			})
		},
	})

	return &session{machine: machine, driver: driver}
}

func initialProgress(config model.TimerConfig) float64 {
	if config.Duration <= 0 {
		return 1
	}
	return config.InitialElapsed().Seconds() / config.Duration.Seconds()
}

func formatStatus(config model.TimerConfig, elapsed time.Duration) string {
	remaining := elapsed
	if !config.Countdown {
		remaining = config.Duration - elapsed
	}
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d left", seconds/60, seconds%60)
}
