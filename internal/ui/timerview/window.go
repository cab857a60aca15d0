// Package timerview provides the main timer window of the host app.
package timerview

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines timer window action handlers.
type Callbacks struct {
	OnTogglePause func()
	OnRestart     func()
	OnQuit        func()
}

// Window shows the running timer: a progress bar, the current value,
// and pause/restart controls. All Set* methods must run on the Fyne
// goroutine; callers hopping threads wrap them in fyne.Do.
type Window struct {
	window      fyne.Window
	progress    *widget.ProgressBar
	valueLabel  *widget.Label
	statusLabel *widget.Label
	pauseButton *widget.Button
	callbacks   Callbacks
}

// New creates the timer window.
func New(app fyne.App, title string, callbacks Callbacks) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	view := &Window{
		window:    window,
		callbacks: callbacks,
	}

	view.valueLabel = widget.NewLabelWithStyle("--:--", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	view.statusLabel = widget.NewLabelWithStyle("running", fyne.TextAlignCenter, fyne.TextStyle{})

	view.progress = widget.NewProgressBar()
	view.progress.TextFormatter = func() string {
		return fmt.Sprintf("%.0f%%", view.progress.Value*100)
	}

	view.pauseButton = widget.NewButton("Pause", func() {
		if view.callbacks.OnTogglePause != nil {
			view.callbacks.OnTogglePause()
		}
	})
	restartButton := widget.NewButton("Restart", func() {
		if view.callbacks.OnRestart != nil {
			view.callbacks.OnRestart()
		}
	})
	quitButton := widget.NewButton("Quit", func() {
		if view.callbacks.OnQuit != nil {
			view.callbacks.OnQuit()
		}
	})

	buttons := container.NewHBox(layout.NewSpacer(), view.pauseButton, restartButton, quitButton, layout.NewSpacer())
	content := container.NewVBox(
		view.valueLabel,
		view.progress,
		view.statusLabel,
		buttons,
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(320, 160))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
}

// SetValue updates the displayed elapsed value and progress fraction.
func (view *Window) SetValue(elapsed time.Duration, progress float64) {
	view.valueLabel.SetText(formatClock(elapsed))
	view.progress.SetValue(progress)
}

// SetPaused flips the pause button label and status line.
func (view *Window) SetPaused(paused bool) {
	if paused {
		view.pauseButton.SetText("Resume")
		view.statusLabel.SetText("paused")
		return
	}
	view.pauseButton.SetText("Pause")
	view.statusLabel.SetText("running")
}

// SetFinished switches the window to its terminal state.
func (view *Window) SetFinished() {
	view.statusLabel.SetText("finished")
	view.pauseButton.Disable()
}

// Reset returns the window to its initial running state.
func (view *Window) Reset(elapsed time.Duration, progress float64) {
	view.pauseButton.Enable()
	view.SetPaused(false)
	view.SetValue(elapsed, progress)
}

func formatClock(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
