package config

import "strings"

// AppVersion is the version of the tool, set with -ldflags at build time.
var AppVersion = "0.0.0-dev"

// AppName is the name of the tool.
const AppName = "Carve"

// RepoOwner and RepoName locate the release feed used by the update check.
const (
	RepoOwner = "dixieflatline76"
	RepoName  = AppName
)

// DebugEnv enables debug logging in release builds when set.
const DebugEnv = "CARVE_DEBUG"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Log rotation limits.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 2
)

// ConfigFileName is the name of the user's config file inside GetPath().
const ConfigFileName = "config.json"
