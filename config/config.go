package config

import (
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type (
	Config struct {
		LogLevel      string `mapstructure:"log_level"`
		Strategy      string `mapstructure:"strategy"`
		Apportionment string `mapstructure:"apportionment"`

		// Keys are lower cased by viper; instance families and zone names
		// are expected in lower case.
		InstanceFamilyWeights   map[string]float64 `mapstructure:"instance_family_weights"`
		AvailabilityZoneWeights map[string]float64 `mapstructure:"availability_zone_weights"`

		MetadataPath    string        `mapstructure:"metadata_path"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

		HTTP    HTTP    `mapstructure:"http"`
		Kafka   Kafka   `mapstructure:"kafka"`
		Metrics Metrics `mapstructure:"metrics"`
		Tracing Tracing `mapstructure:"tracing"`
	}

	HTTP struct {
		ListenerAddr string `mapstructure:"listener_addr"`
	}

	Kafka struct {
		Brokers  []string `mapstructure:"brokers"`
		Version  string   `mapstructure:"version"`
		ClientID string   `mapstructure:"client_id"`
	}

	Metrics struct {
		Namespace string `mapstructure:"namespace"`
	}

	Tracing struct {
		Endpoint    string `mapstructure:"endpoint"`
		Insecure    bool   `mapstructure:"insecure"`
		ServiceName string `mapstructure:"service_name"`
	}
)

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "config", "Path to config file")
	fs.String("log_level", "info", "Log level (debug, info, warn, error)")
	fs.String("strategy", "mixed", "Assignment strategy (mixed, equal)")
	fs.String("apportionment", "largest_remainder", "Apportionment method (largest_remainder, rounded)")
	fs.String("metadata_path", "metadata.db", "Path to the topic metadata database")
	fs.String("http.listener_addr", "", "HTTP listener address")
	fs.StringSlice("kafka.brokers", nil, "Kafka bootstrap brokers")
}

// Loader reads configuration from flags, environment (KAFKA_EC2_*) and an
// optional config file, in that order of precedence.
type Loader struct {
	v *viper.Viper
}

func NewLoader(fs *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	v.SetEnvPrefix("KAFKA_EC2")
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	pathToConfigFile := v.GetString("config")
	if pathToConfigFile != "" {
		filename := filepath.Base(pathToConfigFile)
		v.AddConfigPath(filepath.Dir(pathToConfigFile))
		v.SetConfigName(filename[0 : len(filename)-len(filepath.Ext(filename))])
		if fileExt := filepath.Ext(pathToConfigFile); len(fileExt) > 1 {
			v.SetConfigType(fileExt[1:])
		}
	}

	v.SetDefault("log_level", "info")
	v.SetDefault("strategy", "mixed")
	v.SetDefault("apportionment", "largest_remainder")
	v.SetDefault("metadata_path", "metadata.db")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("kafka.client_id", "kafka-ec2")
	v.SetDefault("metrics.namespace", "kafka_ec2")
	v.SetDefault("tracing.service_name", "kafka-ec2")

	if err := v.ReadInConfig(); err != nil {
		if !stdErrors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return &Loader{v: v}, nil
}

func (l *Loader) Load() (*Config, error) {
	conf := &Config{}
	if err := l.v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return conf, nil
}

// Load is NewLoader followed by Loader.Load.
func Load(fs *pflag.FlagSet) (*Config, error) {
	l, err := NewLoader(fs)
	if err != nil {
		return nil, err
	}
	return l.Load()
}
