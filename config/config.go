package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "CATALOG_CONFIG_FILE"
	envPrefix         = "CATALOG"
	dotEnvFile        = ".env"
)

var ErrInvalidConfig = errors.New("invalid config")

type api struct {
	ProductsURL    string        `mapstructure:"products_url"`
	OptionsURL     string        `mapstructure:"options_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Filter struct {
	Field      string `mapstructure:"field"`
	Title      string `mapstructure:"title"`
	OptionsURL string `mapstructure:"options_url"`
}

type tlsFiles struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// Enabled reports whether any TLS file is set.
func (t tlsFiles) Enabled() bool {
	return t.CAFile != "" || t.CertFile != "" || t.KeyFile != ""
}

type telemetry struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topic              string   `mapstructure:"topic"`
	Partitions         int32    `mapstructure:"partitions"`
	ReplicationFactor  int16    `mapstructure:"replication_factor"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	LogFile            string        `mapstructure:"log_file"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPHandlerTimeout time.Duration `mapstructure:"http_handler_timeout"`
	API                api           `mapstructure:"api"`
	Filters            []Filter      `mapstructure:"filters"`
	Telemetry          telemetry     `mapstructure:"telemetry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_handler_timeout", 5*time.Second)
	v.SetDefault("api.products_url", "")
	v.SetDefault("api.options_url", "")
	v.SetDefault("api.request_timeout", time.Duration(0))
	v.SetDefault("filters", []map[string]any{
		{"field": "brand", "title": "Brand"},
		{"field": "category", "title": "Category"},
		{"field": "active", "title": "Active"},
		{"field": "discontinued", "title": "Discontinued"},
	})
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.seed_brokers", []string{})
	v.SetDefault("telemetry.schema_registry_urls", []string{})
	v.SetDefault("telemetry.topic", "catalog-interactions")
	v.SetDefault("telemetry.partitions", 3)
	v.SetDefault("telemetry.replication_factor", 3)
	v.SetDefault("telemetry.tls.ca_file", "")
	v.SetDefault("telemetry.tls.cert_file", "")
	v.SetDefault("telemetry.tls.key_file", "")
}

// Load reads the YAML file at path on top of the defaults. An empty path
// means defaults only. Variables from a .env file in the working
// directory and CATALOG_* variables override file values, for example
// CATALOG_API_PRODUCTS_URL for api.products_url.
func Load(path string) (Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(dotEnvFile); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// FilePath resolves the config file from the environment or the
// --config flag, in that order.
func FilePath(flags *pflag.FlagSet) string {
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	path, err := flags.GetString("config")
	if err != nil {
		return ""
	}
	return path
}

func (c Config) validate() error {
	var errs []error

	if c.API.ProductsURL == "" {
		errs = append(errs, errors.New("api.products_url is required"))
	}
	if len(c.Filters) == 0 {
		errs = append(errs, errors.New("at least one filter is required"))
	}

	seen := make(map[string]bool, len(c.Filters))
	for i, f := range c.Filters {
		switch {
		case f.Field == "":
			errs = append(errs, fmt.Errorf("filters[%d].field is required", i))
		case seen[f.Field]:
			errs = append(errs, fmt.Errorf("filter %q is duplicated", f.Field))
		}
		seen[f.Field] = true

		if f.OptionsURL == "" && c.API.OptionsURL == "" {
			errs = append(errs, fmt.Errorf(
				"filter %q has no options_url and api.options_url is empty",
				f.Field,
			))
		}
	}

	if c.Telemetry.Enabled {
		if len(c.Telemetry.SeedBrokers) == 0 {
			errs = append(errs, errors.New("telemetry.seed_brokers is required"))
		}
		if len(c.Telemetry.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("telemetry.schema_registry_urls is required"))
		}
		if c.Telemetry.Topic == "" {
			errs = append(errs, errors.New("telemetry.topic is required"))
		}
		tls := c.Telemetry.TLS
		if tls.Enabled() && (tls.CAFile == "" || tls.CertFile == "" || tls.KeyFile == "") {
			errs = append(errs, errors.New(
				"telemetry.tls requires ca_file, cert_file and key_file together",
			))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Print(w io.Writer) {
	template := `
	General:
	LogLevel=%q
	LogFile=%q
	HTTPServerAddr=%q
	HTTPHandlerTimeout=%s

	API:
	ProductsURL=%q
	OptionsURL=%q
	RequestTimeout=%s

	Filters:
%s
	Telemetry:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topic=%q
	TLS=%t

`
	var filters strings.Builder
	for _, f := range c.Filters {
		fmt.Fprintf(&filters, "\t\t%s=%q options_url=%q\n", f.Field, f.Title, f.OptionsURL)
	}

	fmt.Fprintln(w, "Loaded config:")
	fmt.Fprintf(w,
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.LogFile,
		c.HTTPServerAddr,
		c.HTTPHandlerTimeout,
		c.API.ProductsURL,
		c.API.OptionsURL,
		c.API.RequestTimeout,
		filters.String(),
		c.Telemetry.Enabled,
		c.Telemetry.SeedBrokers,
		c.Telemetry.SchemaRegistryURLs,
		c.Telemetry.Topic,
		c.Telemetry.TLS.Enabled(),
	)
}
