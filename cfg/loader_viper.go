package cfg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "TRENDING"

type ViperLoader struct {
	configFile            string
	watch                 bool
	v                     *viper.Viper
	once                  sync.Once
	mu                    sync.RWMutex
	cfg                   *Config
	loadErr               error
	configChangeCallbacks []func(*Config)
}

// NewViperLoader reads cfg/yaml/mode.yaml unless configFile points somewhere else.
func NewViperLoader(configFile string, watch bool) (*ViperLoader, error) {
	return &ViperLoader{
		configFile:            configFile,
		watch:                 watch,
		v:                     viper.New(),
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (vl *ViperLoader) Load() (*Config, error) {
	vl.once.Do(func() {
		fileRead, err := vl.loadConfig()
		vl.loadErr = err
		if err == nil && fileRead && vl.IsWatchChange() {
			vl.v.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := vl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
			vl.v.WatchConfig()
		}
	})

	if vl.loadErr != nil {
		return nil, vl.loadErr
	}

	vl.mu.RLock()
	defer vl.mu.RUnlock()
	return vl.cfg, nil
}

func (vl *ViperLoader) IsWatchChange() bool {
	return vl.watch
}

func (vl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	vl.mu.Lock()
	vl.configChangeCallbacks = append(vl.configChangeCallbacks, callback)
	vl.mu.Unlock()
}

func (vl *ViperLoader) loadConfig() (bool, error) {
	setDefaults(vl.v)
	vl.v.SetEnvPrefix(envPrefix)
	vl.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vl.v.AutomaticEnv()

	if vl.configFile != "" {
		vl.v.SetConfigFile(vl.configFile)
	} else {
		vl.v.AddConfigPath("cfg/yaml")
		vl.v.SetConfigName("mode")
		vl.v.SetConfigType("yaml")
	}

	fileRead := true
	if err := vl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if vl.configFile != "" || !errors.As(err, &notFound) {
			return false, fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
		// Defaults and environment only
		fileRead = false
	}

	cfg, err := vl.decode()
	if err != nil {
		return false, err
	}

	vl.mu.Lock()
	vl.cfg = cfg
	vl.mu.Unlock()

	return fileRead, nil
}

func (vl *ViperLoader) reloadConfig() error {
	cfg, err := vl.decode()
	if err != nil {
		return fmt.Errorf("[ERROR][CONFIG] reload: %w", err)
	}

	vl.mu.Lock()
	vl.cfg = cfg
	callbacks := make([]func(*Config), len(vl.configChangeCallbacks))
	copy(callbacks, vl.configChangeCallbacks)
	vl.mu.Unlock()

	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}

func (vl *ViperLoader) decode() (*Config, error) {
	cfg := &Config{}
	if err := vl.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of a decoded config.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "github-trending")
	v.SetDefault("app.version", "0.0.1")

	v.SetDefault("log.level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "github_trending")
	v.SetDefault("database.path", "data/github_trending.db")
	v.SetDefault("database.maxidleconnection", 10)
	v.SetDefault("database.maxopenconnection", 100)
	v.SetDefault("database.maxlifetimeconnection", 3600)

	v.SetDefault("githubapi.accesstoken", "")
	v.SetDefault("githubapi.apiurl", "https://api.github.com/")
	v.SetDefault("githubapi.trendingurl", "https://github.com/trending")
	v.SetDefault("githubapi.since", "daily")
	v.SetDefault("githubapi.language", "")
	v.SetDefault("githubapi.perpage", 100)
	v.SetDefault("githubapi.maxpages", 3)
	v.SetDefault("githubapi.requestspersecond", 5)
	v.SetDefault("githubapi.throttledelay", 200)
	v.SetDefault("githubapi.ratelimitresetmin", 1)
	v.SetDefault("githubapi.timeout", 30)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.producer.topicrepo", "trending-repos")
	v.SetDefault("kafka.consumer.groupid", "trending-repo-consumer")
	v.SetDefault("kafka.consumer.batchsize", 100)
	v.SetDefault("kafka.consumer.batchtimeoutsec", 5)

	v.SetDefault("export.enabled", true)
	v.SetDefault("export.dir", "data")
	v.SetDefault("export.pattern", "trending_2006-01-02.csv")

	v.SetDefault("upload.enabled", true)
	v.SetDefault("cleaner.mineassets", false)
	v.SetDefault("schedule.interval", "")
	v.SetDefault("ui.port", 8080)
}
