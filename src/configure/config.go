package configure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func checkErr(err error) {
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
}

func New() *Config {
	config := viper.New()

	// Default config
	b, _ := json.Marshal(Config{
		ConfigFile: "config.yaml",
		Level:      "info",
	})
	tmp := viper.New()
	defaultConfig := bytes.NewReader(b)
	tmp.SetConfigType("json")
	checkErr(tmp.ReadConfig(defaultConfig))
	checkErr(config.MergeConfigMap(tmp.AllSettings()))

	pflag.String("config", "config.yaml", "Config file location")
	pflag.Parse()
	checkErr(config.BindPFlags(pflag.CommandLine))

	// File
	config.SetConfigFile(config.GetString("config"))
	config.AddConfigPath(".")
	checkErr(config.ReadInConfig())
	checkErr(config.MergeInConfig())

	BindEnvs(config, Config{})

	// Environment
	config.AutomaticEnv()
	config.SetEnvPrefix("TRIBUTE")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AllowEmptyEnv(true)

	c := &Config{}
	checkErr(config.Unmarshal(&c))

	initLogging(c.Level)

	checkErr(c.Validate())

	logrus.Debugf("current configuration: \n%# v", pretty.Formatter(c))

	return c
}

func BindEnvs(config *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch v.Kind() {
		case reflect.Struct:
			BindEnvs(config, v.Interface(), append(parts, tv)...)
		default:
			_ = config.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func initLogging(level string) {
	if l, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(l)
	}
	logrus.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"component", "category"},
	})
}

// Placeholder values shipped in the example config. Leaving them in place
// must fail startup unless the real value arrives via environment, which
// viper has already merged by the time Validate runs.
var (
	placeholderAPIKeys       = []string{"", "YOUR_API_KEY_HERE"}
	placeholderRconPasswords = []string{"", "your_rcon_password", "YOUR_RCON_PASSWORD"}
)

// Validate fails fast at startup; nothing here is recoverable per-request.
func (c *Config) Validate() error {
	for _, placeholder := range placeholderAPIKeys {
		if c.Tribute.APIKey == placeholder {
			return fmt.Errorf("tribute.api_key must be set (config.yaml or TRIBUTE_TRIBUTE_API_KEY)")
		}
	}

	if len(c.CurrencyRates) == 0 {
		return fmt.Errorf("currency_rates must not be empty")
	}

	if c.Rcon.Host == "" || c.Rcon.Port == 0 {
		return fmt.Errorf("rcon.host and rcon.port are required")
	}

	for _, placeholder := range placeholderRconPasswords {
		if c.Rcon.Password == placeholder {
			return fmt.Errorf("rcon.password must be set (config.yaml or TRIBUTE_RCON_PASSWORD)")
		}
	}

	if !strings.Contains(c.Rcon.Command, "%player_name%") || !strings.Contains(c.Rcon.Command, "%amount%") {
		return fmt.Errorf("rcon.command must contain the %%player_name%% and %%amount%% placeholders")
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
	case "postgres":
		if c.Database.Postgres.URI == "" {
			return fmt.Errorf("database.postgres.uri is required")
		}
	case "mongodb":
		if c.Database.Mongo.URI == "" || c.Database.Mongo.Database == "" {
			return fmt.Errorf("database.mongo.uri and database.mongo.database are required")
		}
	default:
		return fmt.Errorf("database.type must be one of sqlite, postgres, mongodb, got %q", c.Database.Type)
	}

	return nil
}

type Config struct {
	Level      string `mapstructure:"level" json:"level"`
	ConfigFile string `mapstructure:"config" json:"config"`

	API struct {
		Bind string `mapstructure:"bind" json:"bind"`
	} `mapstructure:"api" json:"api"`

	Tribute struct {
		APIKey string `mapstructure:"api_key" json:"api_key"`
	} `mapstructure:"tribute" json:"tribute"`

	CurrencyRates map[string]float64 `mapstructure:"currency_rates" json:"currency_rates"`

	Rcon struct {
		Host            string   `mapstructure:"host" json:"host"`
		Port            int      `mapstructure:"port" json:"port"`
		Password        string   `mapstructure:"password" json:"password"`
		Command         string   `mapstructure:"command" json:"command"`
		SuccessPatterns []string `mapstructure:"success_patterns" json:"success_patterns"`
		ErrorPatterns   []string `mapstructure:"error_patterns" json:"error_patterns"`
		TimeoutSeconds  int      `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	} `mapstructure:"rcon" json:"rcon"`

	Database struct {
		Type string `mapstructure:"type" json:"type"`

		SQLite struct {
			Path string `mapstructure:"path" json:"path"`
		} `mapstructure:"sqlite" json:"sqlite"`

		Postgres struct {
			URI string `mapstructure:"uri" json:"uri"`
		} `mapstructure:"postgres" json:"postgres"`

		Mongo struct {
			URI      string `mapstructure:"uri" json:"uri"`
			Database string `mapstructure:"database" json:"database"`
		} `mapstructure:"mongo" json:"mongo"`
	} `mapstructure:"database" json:"database"`

	Redis struct {
		URI string `mapstructure:"uri" json:"uri"`
	} `mapstructure:"redis" json:"redis"`

	Discord struct {
		WebhookURL string `mapstructure:"webhook_url" json:"webhook_url"`
	} `mapstructure:"discord" json:"discord"`
}
