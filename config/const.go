// Package config holds application-wide constants.
package config

import "strings"

// AppVersion is set at build time with -ldflags "-X .../config.AppVersion=...".
var AppVersion = "dev"

// AppName is the name of the application.
const AppName = "UnsplashedPaper"

// AppID is the reverse-DNS identifier the preferences store is keyed on.
const AppID = "com.dixieflatline76.unsplashedpaper"

// LogWinSubDir is the sub directory for the log files under the user cache dir.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files under $HOME.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// APIAddr is the loopback address of the local control server.
const APIAddr = "127.0.0.1:49453"

// UserAgent identifies the application to the image endpoint.
func UserAgent() string {
	return AppName + "/" + AppVersion
}
