package cfg

type Loader interface {
	Load() (*Config, error)
}

// Watcher is a Loader that calls back with the new config whenever the
// config file changes.
type Watcher interface {
	Loader
	RegisterConfigChangeCallback(callback func(*Config))
}

var (
	_ Watcher = (*ViperLoader)(nil)
	_ Loader  = (*MockLoader)(nil)
)
