// Package ui builds the system tray menu and the preferences window.
package ui

import (
	"net/url"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/wallpaper"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

// OS is the platform hook for showing or hiding the app in the dock.
type OS interface {
	TransformToForeground()
	TransformToBackground()
}

// Service is the subset of the wallpaper service the tray drives.
type Service interface {
	RefreshNow() wallpaper.CycleOutcome
	ApplySettings() wallpaper.CycleOutcome
	CacheDir() string
	Config() *wallpaper.Config
	OnCycle(fn func(wallpaper.CycleOutcome))
}

// App is the tray application.
type App struct {
	app      fyne.App
	svc      Service
	os       OS
	trayMenu *fyne.Menu
	notify   func(*fyne.Notification)

	prefsMu     sync.Mutex
	prefsWindow fyne.Window
}

// NewApp wraps a fyne app and the wallpaper service. Every finished cycle,
// whatever started it, goes through NotifyOutcome.
func NewApp(a fyne.App, svc Service) *App {
	ua := &App{app: a, svc: svc, os: getOS(), notify: a.SendNotification}
	svc.OnCycle(ua.NotifyOutcome)
	return ua
}

// CreateTrayMenu installs the tray icon and menu. It returns false when the
// driver has no system tray.
func (ua *App) CreateTrayMenu() bool {
	desk, ok := ua.app.(desktop.App)
	if !ok {
		log.Print("[UI] Tray icon not supported on this platform")
		return false
	}

	ua.trayMenu = ua.buildMenu()
	desk.SetSystemTrayMenu(ua.trayMenu)
	desk.SetSystemTrayIcon(theme.ComputerIcon())
	ua.app.SetIcon(theme.ComputerIcon())
	ua.os.TransformToBackground()
	return true
}

func (ua *App) buildMenu() *fyne.Menu {
	quit := fyne.NewMenuItem("Quit", func() {
		ua.app.Quit()
	})
	quit.IsQuit = true
	quit.Icon = theme.LogoutIcon()

	return fyne.NewMenu(
		config.AppName,
		ua.createMenuItem("Preferences", func() {
			fyne.Do(ua.ShowPreferences)
		}, theme.SettingsIcon()),
		ua.createMenuItem("Refresh Now", func() {
			go ua.svc.RefreshNow()
		}, theme.ViewRefreshIcon()),
		ua.createMenuItem("Apply Settings", func() {
			go ua.svc.ApplySettings()
		}, theme.ConfirmIcon()),
		ua.createMenuItem("Open Cache Folder", ua.OpenCacheFolder, theme.FolderOpenIcon()),
		fyne.NewMenuItemSeparator(),
		quit,
	)
}

func (ua *App) createMenuItem(label string, action func(), icon fyne.Resource) *fyne.MenuItem {
	mi := fyne.NewMenuItem(label, action)
	mi.Icon = icon
	return mi
}

// OpenCacheFolder opens the asset directory in the file browser.
func (ua *App) OpenCacheFolder() {
	u := &url.URL{Scheme: "file", Path: ua.svc.CacheDir()}
	if err := ua.app.OpenURL(u); err != nil {
		log.Printf("[UI] Failed to open %s: %v", u, err)
	}
}

// NotifyOutcome raises a desktop notification when no display could be
// refreshed.
func (ua *App) NotifyOutcome(o wallpaper.CycleOutcome) {
	if len(o.Results) == 0 || o.Applied() > 0 {
		return
	}
	msg := "No display could be refreshed."
	if err := o.Err(); err != nil {
		msg = err.Error()
	}
	ua.notify(fyne.NewNotification(config.AppName, msg))
}

// Run runs the fyne event loop. It blocks until Quit.
func (ua *App) Run() {
	ua.app.Run()
}
