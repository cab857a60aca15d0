// Package preferences provides the timer configuration window.
package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"sandglass/internal/core/model"
)

// Window handles the timer configuration UI.
type Window struct {
	window      fyne.Window
	config      model.TimerConfig
	onSave      func(model.TimerConfig)
	durationSec *widget.Entry
	delaySec    *widget.Entry
	tickMillis  *widget.Entry
	countdown   *widget.Check
	repeat      *widget.Check
}

// New creates a configuration window. onSave receives the normalized
// configuration when the user applies changes.
func New(app fyne.App, config model.TimerConfig, onSave func(model.TimerConfig)) *Window {
	window := app.NewWindow("Sandglass Settings")

	durationSec := widget.NewEntry()
	delaySec := widget.NewEntry()
	tickMillis := widget.NewEntry()

	countdown := widget.NewCheck("Count down toward zero", nil)
	repeat := widget.NewCheck("Repeat when finished", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Duration"), durationSec, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Start delay"), delaySec, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Tick interval"), tickMillis, widget.NewLabel("ms")),
		countdown,
		repeat,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 280))

	prefs := &Window{
		window:      window,
		config:      config,
		onSave:      onSave,
		durationSec: durationSec,
		delaySec:    delaySec,
		tickMillis:  tickMillis,
		countdown:   countdown,
		repeat:      repeat,
	}
	prefs.UpdateConfig(config)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
	}

	return prefs
}

// Show displays the configuration window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateConfig replaces window values.
func (prefs *Window) UpdateConfig(config model.TimerConfig) {
	prefs.config = config
	prefs.durationSec.SetText(fmt.Sprintf("%g", config.Duration.Seconds()))
	prefs.delaySec.SetText(fmt.Sprintf("%g", config.Delay.Seconds()))
	prefs.tickMillis.SetText(fmt.Sprintf("%d", config.TickInterval.Milliseconds()))
	prefs.countdown.SetChecked(config.Countdown)
	prefs.repeat.SetChecked(config.Repeats)
}

func (prefs *Window) handleSave() {
	config := prefs.config

	if seconds, ok := parseNonNegativeFloat(prefs.durationSec.Text); ok {
		config.Duration = model.DurationFromSeconds(seconds)
	}
	if seconds, ok := parseNonNegativeFloat(prefs.delaySec.Text); ok {
		config.Delay = model.DurationFromSeconds(seconds)
	}
	if millis, ok := parseNonNegativeFloat(prefs.tickMillis.Text); ok && millis > 0 {
		config.TickInterval = model.DurationFromMillis(millis)
	}
	config.Countdown = prefs.countdown.Checked
	config.Repeats = prefs.repeat.Checked

	prefs.config = config.Normalized()
	if prefs.onSave != nil {
		prefs.onSave(prefs.config)
	}
	prefs.window.Hide()
}

func parseNonNegativeFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
