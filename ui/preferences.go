package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/wallpaper"
)

// intervalPattern accepts a positive whole number of seconds.
const intervalPattern = `^[1-9][0-9]{0,6}$`

// parseInterval turns the interval entry into seconds.
func parseInterval(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("interval must be a positive number of seconds")
	}
	return n, nil
}

// preferencesForm holds the widgets of the preferences panel.
type preferencesForm struct {
	interval   *widget.Entry
	scale      *widget.Check
	perScreen  *widget.Check
	collection *widget.Entry
	query      *widget.Entry
	apply      *widget.Button
	status     *widget.Label
}

// save writes every field to cfg. The interval is only written when valid.
func (f *preferencesForm) save(cfg *wallpaper.Config) error {
	seconds, err := parseInterval(f.interval.Text)
	if err != nil {
		return err
	}
	cfg.SetUpdateInterval(seconds)
	cfg.SetScaleImages(f.scale.Checked)
	cfg.SetImagePerScreen(f.perScreen.Checked)
	cfg.SetCollectionID(strings.TrimSpace(f.collection.Text))
	cfg.SetSearchQuery(f.query.Text)
	return nil
}

// newPreferencesPanel builds the settings panel. Saving only stores the
// values; the service's preference watcher turns the change into one cycle.
func newPreferencesPanel(cfg *wallpaper.Config) (*fyne.Container, *preferencesForm) {
	f := &preferencesForm{status: widget.NewLabel("")}
	status := f.status

	f.interval = widget.NewEntry()
	f.interval.SetText(strconv.Itoa(cfg.GetUpdateInterval()))
	f.interval.Validator = validation.NewRegexp(intervalPattern, "Enter a whole number of seconds")
	every := hintLabel(intervalHint(f.interval.Text))
	f.interval.OnChanged = func(s string) { every.SetText(intervalHint(s)) }

	f.scale = widget.NewCheck("Scale images to fit the display", nil)
	f.scale.SetChecked(cfg.GetScaleImages())

	f.perScreen = widget.NewCheck("Different image on each display", nil)
	f.perScreen.SetChecked(cfg.GetImagePerScreen())

	f.collection = widget.NewEntry()
	f.collection.SetPlaceHolder("e.g. 317099")
	f.collection.SetText(cfg.GetCollectionID())

	f.query = widget.NewEntry()
	f.query.SetPlaceHolder("e.g. mountains,lake")
	f.query.SetText(cfg.GetSearchQuery())

	f.apply = widget.NewButton("Apply Changes", func() {
		if err := f.save(cfg); err != nil {
			status.SetText(err.Error())
			status.Importance = widget.DangerImportance
			status.Refresh()
			return
		}
		status.SetText("Saved.")
		status.Importance = widget.MediumImportance
		status.Refresh()
	})

	content := container.NewVBox(
		sectionLabel("Wallpaper Preferences"),
		hintLabel("Images come from source.unsplash.com at each display's resolution."),
		widget.NewSeparator(),
		fieldLabel("Update Interval (seconds):"),
		f.interval,
		every,
		widget.NewSeparator(),
		fieldLabel("Display:"),
		f.scale,
		f.perScreen,
		widget.NewSeparator(),
		fieldLabel("Collection ID:"),
		hintLabel("Leave empty to draw from all photos."),
		f.collection,
		fieldLabel("Search Query:"),
		hintLabel("Sent as-is after the '?' in the request."),
		f.query,
		status,
	)
	return content, f
}

// ShowPreferences opens the preferences window, or focuses it if open.
// Must run on the fyne main thread.
func (ua *App) ShowPreferences() {
	ua.prefsMu.Lock()
	defer ua.prefsMu.Unlock()

	if ua.prefsWindow != nil {
		ua.prefsWindow.RequestFocus()
		return
	}

	w := ua.app.NewWindow(fmt.Sprintf("%s Preferences", config.AppName))
	w.Resize(fyne.NewSize(480, 560))
	w.CenterOnScreen()

	panel, form := newPreferencesPanel(ua.svc.Config())
	closeButton := widget.NewButton("Close", func() {
		w.Close()
	})
	w.SetContent(container.NewBorder(nil,
		container.NewHBox(layout.NewSpacer(), form.apply, closeButton), nil, nil,
		container.NewVScroll(panel)))

	w.SetOnClosed(func() {
		ua.prefsMu.Lock()
		ua.prefsWindow = nil
		ua.prefsMu.Unlock()
		ua.os.TransformToBackground()
	})

	ua.prefsWindow = w
	ua.os.TransformToForeground()
	w.Show()
}
