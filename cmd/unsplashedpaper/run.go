package main

import (
	"fmt"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/api"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/hotkey"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/wallpaper"
	"github.com/dixieflatline76/UnsplashedPaper/ui"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

// runTray starts the long-running tray app and blocks until Quit.
func runTray(e env) error {
	ok, err := acquireLock()
	if err != nil {
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if !ok {
		fmt.Fprintf(e.out, "Another instance of %s is already running.\n", config.AppName)
		return nil
	}
	defer releaseLock()

	a := fyneapp.NewWithID(config.AppID)
	client := e.client()
	svc := wallpaper.NewService(a.Preferences(), e.os(), client)
	defer svc.Close()
	svc.WatchSettings(wallpaper.SettingsDebounce)

	server := api.NewServer(config.APIAddr, svc)
	server.RegisterCache(client.Fs(), client.Dir())
	svc.Subscribe(server.BroadcastResult)
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("[API] Server stopped: %v", err)
		}
	}()
	defer func() {
		if err := server.Stop(); err != nil {
			log.Printf("[API] Failed to stop server: %v", err)
		}
	}()

	tray := ui.NewApp(a, svc)
	if !tray.CreateTrayMenu() {
		log.Print("[UI] Running without a tray icon; use the hotkeys or the local API")
	}

	stopHotkeys := func() {}
	a.Lifecycle().SetOnStarted(func() {
		stopHotkeys = hotkey.StartListeners(hotkey.Actions{
			RefreshNow:     func() { go svc.RefreshNow() },
			RefreshDisplay: func(id int) { go svc.RefreshDisplay(id) },
			ApplySettings:  func() { go svc.ApplySettings() },
		})
		svc.Run()
	})
	defer func() { stopHotkeys() }()

	tray.Run()
	return nil
}
