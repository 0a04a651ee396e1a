package config

// Default paths and endpoints
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./library-catalog.db"

	// DefaultBaseURL is the API base the CLI client talks to
	DefaultBaseURL = "http://localhost:8080/api"

	// DefaultSessionPath is where the CLI client persists its session
	DefaultSessionPath = "./.catalog-session.json"
)
