package vercache

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/vercache/pool"
)

// yamlOptions mirrors Options with string-typed numeric fields, the shape a
// configuration file naturally has. Validation happens in OptionsFromYAML.
type yamlOptions struct {
	Server         string `yaml:"server"`
	Namespace      string `yaml:"namespace"`
	Version        int    `yaml:"version"`
	DefaultTimeout string `yaml:"default_timeout"` // Go duration, e.g. "300s"
	DB             string `yaml:"db"`
	Password       string `yaml:"password"`
	ParserClass    string `yaml:"parser_class"`
	PoolClass      string `yaml:"pool_class"`
	Pool           struct {
		RetryOnTimeout  bool   `yaml:"retry_on_timeout"`
		SocketKeepAlive *bool  `yaml:"socket_keepalive"`
		ConnectTimeout  string `yaml:"connect_timeout"`
		SocketTimeout   string `yaml:"socket_timeout"`
		MaxConnections  int    `yaml:"max_connections"`
	} `yaml:"pool"`
}

// OptionsFromYAML parses a client configuration document. The db and the
// duration fields arrive as strings and are validated here: values that do
// not parse are a *ConfigError, the same class New raises for a malformed
// endpoint. The returned Options still go through New for the remaining
// validation.
func OptionsFromYAML(b []byte) (Options, error) {
	var y yamlOptions
	if err := yaml.Unmarshal(b, &y); err != nil {
		return Options{}, newConfigError("yaml: %v", err)
	}

	opts := Options{
		Server:      y.Server,
		Namespace:   y.Namespace,
		Version:     y.Version,
		Password:    y.Password,
		ParserClass: y.ParserClass,
		PoolClass:   y.PoolClass,
	}
	if y.DB != "" {
		db, err := strconv.Atoi(y.DB)
		if err != nil {
			return Options{}, newConfigError("db value must be an integer: %q", y.DB)
		}
		opts.DB = &db
	}
	var err error
	if opts.DefaultTimeout, err = parseDuration("default_timeout", y.DefaultTimeout); err != nil {
		return Options{}, err
	}

	opts.PoolParams = pool.Params{
		RetryOnTimeout:  y.Pool.RetryOnTimeout,
		SocketKeepAlive: y.Pool.SocketKeepAlive,
		MaxConnections:  y.Pool.MaxConnections,
	}
	if opts.PoolParams.ConnectTimeout, err = parseDuration("pool.connect_timeout", y.Pool.ConnectTimeout); err != nil {
		return Options{}, err
	}
	if opts.PoolParams.SocketTimeout, err = parseDuration("pool.socket_timeout", y.Pool.SocketTimeout); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, newConfigError("%s: %v", field, err)
	}
	return d, nil
}
