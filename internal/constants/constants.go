package constants

// Folder Names
const (
	BackupsDirName = "backups"
	LogsDirName    = "logs"
	LocksDirName   = "locks"
)

// File Names
const (
	ComposeFileName  = "docker-compose.yml"
	EnvFileName      = ".env"
	ConfigFileName   = "config.json"
	RegistryFileName = "apps.json"
	ManifestFileName = "backup.yml"
)

// ComposeFileNames are the compose file names recognized when resolving an
// application directory, in preference order.
var ComposeFileNames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Backup
const (
	// BackupTimestampLayout names archives as <app>_<timestamp>.tar.gz.
	BackupTimestampLayout = "20060102_150405"

	// SnapshotHelperImage is the disposable container image used to tar
	// and untar named volume contents.
	SnapshotHelperImage = "alpine:3.20"
)

// Compose runtime
const (
	// MinComposeVersion is the oldest docker compose plugin version the
	// lifecycle driver accepts.
	MinComposeVersion = "2.20.0"
)
