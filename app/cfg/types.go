package cfg

type Cfg struct {
	// Storage configuration
	DatabaseURL string

	// Ingestion configuration
	SourcesFile  string
	WorkerCount  int
	LookbackDays int
	Since        string

	// Server configuration
	Port         string
	BaseUrl      string
	APIAccessKey string
	Schedule     string
	RedisAddr    string
	FeedCacheTTL int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
