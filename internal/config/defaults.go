package config

const (
	defaultConfigPath       = "~/.config/tmdbhelper/config.toml"
	defaultStateDir         = "~/.local/share/tmdbhelper"
	defaultLogDir           = "~/.local/share/tmdbhelper/logs"
	defaultHistoryFile      = "history.db"
	backupDirName           = "backups"
	defaultWorkingDir       = "~/TMDB-Import"
	defaultTargetTemplate   = "https://www.themoviedb.org/tv/{id}/season/{season}?language={language}"
	defaultLanguage         = "zh-CN"
	defaultConflictResponse = "w"
	defaultTimeoutSeconds   = 600
	defaultKillGraceSeconds = 5
	defaultExcerptRunes     = 2000
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

var defaultCommand = []string{"python", "-m", "tmdb-import"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		ImportTool: ImportTool{
			Command:          append([]string(nil), defaultCommand...),
			WorkingDir:       defaultWorkingDir,
			TargetTemplate:   defaultTargetTemplate,
			Language:         defaultLanguage,
			ConflictResponse: defaultConflictResponse,
			TimeoutSeconds:   defaultTimeoutSeconds,
			KillGraceSeconds: defaultKillGraceSeconds,
			ExcerptRunes:     defaultExcerptRunes,
		},
		Transform: Transform{
			Backup: true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
