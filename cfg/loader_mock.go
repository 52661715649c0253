package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "github-trending",
			Version: "0.0.1",
		},

		// Log
		Log: Log{Level: "info"},

		// Database
		Database: Database{
			Driver:                "sqlite",
			Path:                  "data/github_trending.db",
			MaxIdleConnection:     2,
			MaxOpenConnection:     1,
			MaxLifeTimeConnection: 3600,
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "",
			ApiUrl:            "https://api.github.com/",
			TrendingUrl:       "https://github.com/trending",
			Since:             "daily",
			PerPage:           100,
			MaxPages:          3,
			RequestsPerSecond: 5,
			ThrottleDelay:     200,
			RateLimitResetMin: 1,
			Timeout:           30,
		},

		// Kafka
		Kafka: Kafka{
			Enabled:  false,
			Brokers:  []string{"127.0.0.1:9092"},
			Producer: Producer{TopicRepo: "trending-repos"},
			Consumer: Consumer{GroupID: "trending-repo-consumer", BatchSize: 100, BatchTimeoutSec: 5},
		},

		// Export
		Export: Export{
			Enabled: true,
			Dir:     "data",
			Pattern: "trending_2006-01-02.csv",
		},

		Upload:   Upload{Enabled: true},
		Cleaner:  Cleaner{MineAssets: false},
		Schedule: Schedule{Interval: ""},
		Ui:       Ui{Port: 8080},
	}, nil
}
