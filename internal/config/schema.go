package config

// Driver selects the storage backend
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// Log output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version" validate:"min=1"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Console ConsoleConfig `yaml:"console"`
}

// StorageConfig holds persistence settings
type StorageConfig struct {
	Driver Driver `yaml:"driver" validate:"oneof=file sqlite"`
	Path   string `yaml:"path" validate:"required"` // JSON file or SQLite database, per driver
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// ConsoleConfig holds command shell settings
type ConsoleConfig struct {
	Prompt string `yaml:"prompt"`
}
