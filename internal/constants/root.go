package constants

const (
	AppName            = "daylog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/daylog"
	DefaultConfigPath  = "~/.config/daylog/daylog.db"
	ConfigFileName     = "config.yaml"
	EnvFileName        = ".env"
	Version            = "v0.1.0"

	// KeyringConfigValue selects the connection string stored in the OS keyring.
	KeyringConfigValue = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for monthly reports (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daylog-"
	BackupFileSuffix = ".json"

	// SupportedBackupVersion is the newest backup format this build reads and the one it writes.
	SupportedBackupVersion = 1

	// Export constants
	ExportDirName = "exports"
)
