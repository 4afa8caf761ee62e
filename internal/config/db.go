package config

// Supported database engines.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // sqlite, postgres or mysql
	Extras   string // appended to the dsn, e.g. "sslmode=disable" or "parseTime=true"
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Path of the sqlite database file, ":memory:" for a throwaway database.
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	LogSQL          bool
}
