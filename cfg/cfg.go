package cfg

type (
	App struct {
		Name    string `validate:"required"`
		Version string
	}

	Log struct {
		Level string `validate:"oneof=debug info notice warn error critical alert emergency"`
	}

	Database struct {
		Driver                string `validate:"oneof=mysql sqlite"`
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		Path                  string
		MaxIdleConnection     int `validate:"gte=0"`
		MaxOpenConnection     int `validate:"gte=0"`
		MaxLifeTimeConnection int `validate:"gte=0"`
	}

	GithubApi struct {
		AccessToken       string
		ApiUrl            string `validate:"required,url"`
		TrendingUrl       string `validate:"required,url"`
		Since             string `validate:"oneof=daily weekly monthly"`
		Language          string
		PerPage           int `validate:"gte=1,lte=100"`
		MaxPages          int `validate:"gte=1"`
		RequestsPerSecond int `validate:"gte=1"`
		ThrottleDelay     int `validate:"gte=0"`
		RateLimitResetMin int `validate:"gte=0"`
		Timeout           int `validate:"gte=1"`
	}

	Producer struct {
		TopicRepo string
	}

	Consumer struct {
		GroupID         string
		BatchSize       int `validate:"gte=1"`
		BatchTimeoutSec int `validate:"gte=1"`
	}

	Kafka struct {
		Enabled  bool
		Brokers  []string
		Producer Producer
		Consumer Consumer
	}

	Export struct {
		Enabled bool
		Dir     string
		Pattern string
	}

	Upload struct {
		Enabled bool
	}

	Cleaner struct {
		MineAssets bool
	}

	Schedule struct {
		Interval string
	}

	Ui struct {
		Port int `validate:"gte=1,lte=65535"`
	}
)

type Config struct {
	App       App
	Log       Log
	Database  Database
	GithubApi GithubApi
	Kafka     Kafka
	Export    Export
	Upload    Upload
	Cleaner   Cleaner
	Schedule  Schedule
	Ui        Ui
}
