//go:build linux
// +build linux

package wallpaper

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// commandRunner runs an external program and returns its stdout.
type commandRunner func(name string, args ...string) ([]byte, error)

func execOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// linuxOS implements the OS interface for Linux desktops.
type linuxOS struct {
	screens MonitorEnumerator
	run     commandRunner
	desktop string
	wayland bool
}

func getOS() OS {
	desktopEnv := os.Getenv("XDG_CURRENT_DESKTOP")
	if desktopEnv == "" {
		desktopEnv = os.Getenv("DESKTOP_SESSION")
	}
	return &linuxOS{
		screens: NewScreenEnumerator(),
		run:     execOutput,
		desktop: strings.ToLower(desktopEnv),
		wayland: os.Getenv("WAYLAND_DISPLAY") != "",
	}
}

type linuxDesktop int

const (
	desktopUnknown linuxDesktop = iota
	desktopGNOME
	desktopKDE
	desktopXFCE
	desktopSway
)

func (l *linuxOS) kind() linuxDesktop {
	switch {
	case strings.Contains(l.desktop, "sway"):
		return desktopSway
	case strings.Contains(l.desktop, "gnome"), strings.Contains(l.desktop, "unity"),
		strings.Contains(l.desktop, "cinnamon"), strings.Contains(l.desktop, "mutter"):
		return desktopGNOME
	case strings.Contains(l.desktop, "kde"):
		return desktopKDE
	case strings.Contains(l.desktop, "xfce") && !l.wayland:
		return desktopXFCE
	default:
		return desktopUnknown
	}
}

// GetMonitors lists outputs from the compositor on Sway and from the X
// screen list everywhere else.
func (l *linuxOS) GetMonitors() ([]Monitor, error) {
	if l.kind() == desktopSway {
		return l.swayOutputs()
	}
	return l.screens.GetMonitors()
}

// GetDesktopOptions reads the background settings of one display.
func (l *linuxOS) GetDesktopOptions(monitorID int) (DesktopOptions, error) {
	switch l.kind() {
	case desktopGNOME:
		out, err := l.run("gsettings", "get", gnomeBackgroundSchema, "picture-options")
		if err != nil {
			return DesktopOptions{}, fmt.Errorf("failed to read GNOME picture-options: %w", err)
		}
		mode := strings.Trim(strings.TrimSpace(string(out)), "'")
		return DesktopOptions{
			ImageScaling: gnomeScalingModes[mode],
			Extra:        map[string]string{"picture-options": mode},
		}, nil
	case desktopXFCE:
		base, err := l.xfceMonitorProperty(monitorID)
		if err != nil {
			return DesktopOptions{}, err
		}
		out, err := l.run("xfconf-query", "--channel", "xfce4-desktop", "--property", base+"/image-style")
		if err != nil {
			return DesktopOptions{}, fmt.Errorf("failed to read XFCE image-style: %w", err)
		}
		style := strings.TrimSpace(string(out))
		return DesktopOptions{
			ImageScaling: xfceScalingStyles[style],
			Extra:        map[string]string{"image-style": style},
		}, nil
	case desktopKDE, desktopSway:
		// Neither exposes a cheap read path; start from "scaled".
		return DesktopOptions{ImageScaling: true}, nil
	default:
		return DesktopOptions{}, fmt.Errorf("unsupported desktop environment: %q", l.desktop)
	}
}

// SetWallpaper sets imagePath as the background of one display.
func (l *linuxOS) SetWallpaper(imagePath string, monitorID int, opts DesktopOptions) error {
	switch l.kind() {
	case desktopGNOME:
		return l.setWallpaperGNOME(imagePath, opts)
	case desktopKDE:
		return l.setWallpaperKDE(imagePath, monitorID, opts)
	case desktopXFCE:
		return l.setWallpaperXFCE(imagePath, monitorID, opts)
	case desktopSway:
		return l.setWallpaperSway(imagePath, monitorID, opts)
	default:
		if l.wayland {
			return fmt.Errorf("unsupported Wayland compositor: %s", l.desktop)
		}
		return fmt.Errorf("unsupported X11 desktop environment: %s", l.desktop)
	}
}

const gnomeBackgroundSchema = "org.gnome.desktop.background"

var gnomeScalingModes = map[string]bool{
	"zoom": true, "scaled": true, "stretched": true, "spanned": true,
}

// setWallpaperGNOME sets the wallpaper for GNOME-based desktops. GNOME has a
// single background for all monitors, so monitorID is not used.
func (l *linuxOS) setWallpaperGNOME(imagePath string, opts DesktopOptions) error {
	uri := "file://" + imagePath
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		if _, err := l.run("gsettings", "set", gnomeBackgroundSchema, key, uri); err != nil && key == "picture-uri" {
			return fmt.Errorf("gsettings %s: %w", key, err)
		}
	}

	mode := opts.Extra["picture-options"]
	switch {
	case opts.ImageScaling && !gnomeScalingModes[mode]:
		mode = "zoom"
	case !opts.ImageScaling && gnomeScalingModes[mode]:
		mode = "centered"
	}
	if mode == "" || mode == opts.Extra["picture-options"] {
		return nil
	}
	if _, err := l.run("gsettings", "set", gnomeBackgroundSchema, "picture-options", mode); err != nil {
		return fmt.Errorf("gsettings picture-options: %w", err)
	}
	return nil
}

// KDE Image wallpaper FillMode values.
const (
	kdeFillPreserveAspectCrop = 2
	kdeFillPad                = 6
)

// setWallpaperKDE sets the wallpaper of one Plasma desktop through the
// plasmashell scripting interface.
func (l *linuxOS) setWallpaperKDE(imagePath string, monitorID int, opts DesktopOptions) error {
	fill := kdeFillPad
	if opts.ImageScaling {
		fill = kdeFillPreserveAspectCrop
	}
	script := fmt.Sprintf(`
var d = desktopForScreen(%d);
if (d) {
    d.wallpaperPlugin = "org.kde.image";
    d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
    d.writeConfig("Image", "file://%s");
    d.writeConfig("FillMode", %d);
}`, monitorID, imagePath, fill)

	_, err := l.run("dbus-send", "--session", "--dest=org.kde.plasmashell", "--type=method_call",
		"/PlasmaShell", "org.kde.PlasmaShell.evaluateScript", "string:"+script)
	if err != nil {
		return fmt.Errorf("plasmashell evaluateScript: %w", err)
	}
	return nil
}

// XFCE image-style values that scale the picture.
var xfceScalingStyles = map[string]bool{"3": true, "4": true, "5": true}

const (
	xfceStyleCentered = "1"
	xfceStyleZoomed   = "5"
)

// xfceMonitorProperty returns the property prefix for the n-th monitor,
// e.g. /backdrop/screen0/monitorHDMI-1/workspace0.
func (l *linuxOS) xfceMonitorProperty(monitorID int) (string, error) {
	out, err := l.run("xfconf-query", "--channel", "xfce4-desktop", "--list")
	if err != nil {
		return "", fmt.Errorf("failed to list XFCE desktop properties: %w", err)
	}

	var prefixes []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "/backdrop/screen0/monitor") && strings.HasSuffix(line, "/workspace0/last-image") {
			prefixes = append(prefixes, strings.TrimSuffix(line, "/last-image"))
		}
	}
	sort.Strings(prefixes)

	if monitorID < 0 || monitorID >= len(prefixes) {
		return "", fmt.Errorf("no XFCE backdrop configured for monitor %d", monitorID)
	}
	return prefixes[monitorID], nil
}

// setWallpaperXFCE sets last-image and image-style for one monitor.
func (l *linuxOS) setWallpaperXFCE(imagePath string, monitorID int, opts DesktopOptions) error {
	base, err := l.xfceMonitorProperty(monitorID)
	if err != nil {
		return err
	}

	if _, err := l.run("xfconf-query", "--channel", "xfce4-desktop",
		"--property", base+"/last-image", "--set", imagePath); err != nil {
		return fmt.Errorf("xfconf-query last-image: %w", err)
	}

	style := opts.Extra["image-style"]
	switch {
	case opts.ImageScaling && !xfceScalingStyles[style]:
		style = xfceStyleZoomed
	case !opts.ImageScaling && xfceScalingStyles[style]:
		style = xfceStyleCentered
	}
	if style == "" || style == opts.Extra["image-style"] {
		return nil
	}
	if _, err := l.run("xfconf-query", "--channel", "xfce4-desktop",
		"--property", base+"/image-style", "--set", style); err != nil {
		return fmt.Errorf("xfconf-query image-style: %w", err)
	}
	return nil
}

type swayOutput struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Rect   struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"rect"`
}

func (l *linuxOS) swayOutputs() ([]Monitor, error) {
	out, err := l.run("swaymsg", "-t", "get_outputs", "--raw")
	if err != nil {
		return nil, fmt.Errorf("swaymsg get_outputs: %w", err)
	}
	var outputs []swayOutput
	if err := json.Unmarshal(out, &outputs); err != nil {
		return nil, fmt.Errorf("failed to parse sway outputs: %w", err)
	}

	var monitors []Monitor
	for _, o := range outputs {
		if !o.Active {
			continue
		}
		monitors = append(monitors, Monitor{
			ID:   len(monitors),
			Name: o.Name,
			Rect: image.Rect(o.Rect.X, o.Rect.Y, o.Rect.X+o.Rect.Width, o.Rect.Y+o.Rect.Height),
		})
	}
	return monitors, nil
}

// setWallpaperSway sets the background of one output through swaymsg.
func (l *linuxOS) setWallpaperSway(imagePath string, monitorID int, opts DesktopOptions) error {
	monitors, err := l.swayOutputs()
	if err != nil {
		return err
	}
	if monitorID < 0 || monitorID >= len(monitors) {
		return fmt.Errorf("no sway output with index %s", strconv.Itoa(monitorID))
	}

	mode := "center"
	if opts.ImageScaling {
		mode = "fill"
	}
	if _, err := l.run("swaymsg", "output", monitors[monitorID].Name, "bg", imagePath, mode); err != nil {
		return fmt.Errorf("swaymsg output bg: %w", err)
	}
	return nil
}
