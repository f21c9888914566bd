package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default DICE data directory name (relative to home).
	DefaultDataDir = ".dice"
	// DBFile is the SQLite run history filename.
	DBFile = "dice.db"
	// EnvFile is the dotenv file loaded from the working directory.
	EnvFile = ".env"
)

// DataDir returns the DICE data directory under home.
func DataDir(home string) string {
	return filepath.Join(home, DefaultDataDir)
}

// DBPath returns the run history database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}
