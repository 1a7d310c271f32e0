package configure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{}
	c.Tribute.APIKey = "real-key"
	c.CurrencyRates = map[string]float64{"RUB": 0.01}
	c.Rcon.Host = "127.0.0.1"
	c.Rcon.Port = 25575
	c.Rcon.Password = "hunter2"
	c.Rcon.Command = "points give %player_name% %amount%"
	c.Database.Type = "sqlite"
	c.Database.SQLite.Path = "data/tribute.db"
	return c
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "placeholder api key",
			mutate: func(c *Config) { c.Tribute.APIKey = "YOUR_API_KEY_HERE" },
			want:   "api_key",
		},
		{
			name:   "empty api key",
			mutate: func(c *Config) { c.Tribute.APIKey = "" },
			want:   "api_key",
		},
		{
			name:   "no currency rates",
			mutate: func(c *Config) { c.CurrencyRates = nil },
			want:   "currency_rates",
		},
		{
			name:   "no rcon host",
			mutate: func(c *Config) { c.Rcon.Host = "" },
			want:   "rcon.host",
		},
		{
			name:   "placeholder rcon password",
			mutate: func(c *Config) { c.Rcon.Password = "your_rcon_password" },
			want:   "rcon.password",
		},
		{
			name:   "command missing player placeholder",
			mutate: func(c *Config) { c.Rcon.Command = "points give %amount%" },
			want:   "player_name",
		},
		{
			name:   "command missing amount placeholder",
			mutate: func(c *Config) { c.Rcon.Command = "points give %player_name%" },
			want:   "amount",
		},
		{
			name:   "unsupported database type",
			mutate: func(c *Config) { c.Database.Type = "cassandra" },
			want:   "database.type",
		},
		{
			name:   "sqlite without path",
			mutate: func(c *Config) { c.Database.SQLite.Path = "" },
			want:   "sqlite.path",
		},
		{
			name:   "postgres without uri",
			mutate: func(c *Config) { c.Database.Type = "postgres" },
			want:   "postgres.uri",
		},
		{
			name:   "mongodb without database",
			mutate: func(c *Config) { c.Database.Type = "mongodb"; c.Database.Mongo.URI = "mongodb://localhost" },
			want:   "database.mongo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
