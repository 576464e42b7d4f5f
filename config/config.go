package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Remote   RemoteConfig   `mapstructure:"remote"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Profile  ProfileConfig  `mapstructure:"profile"`
	Database DatabaseConfig `mapstructure:"database"`
	Debug    bool           `mapstructure:"debug"`
}

// RemoteConfig points the client at the room and inventory services.
type RemoteConfig struct {
	RoomBaseURL      string        `mapstructure:"room_base_url"`
	InventoryBaseURL string        `mapstructure:"inventory_base_url"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

// GatewayConfig holds the local listen addresses for attached UI
// surfaces and tooling.
type GatewayConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type SyncConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	FocusInterval time.Duration `mapstructure:"focus_interval"`
}

// ProfileConfig supplies defaults used before a profile has been
// persisted locally.
type ProfileConfig struct {
	Nickname string `mapstructure:"nickname"`
	Class    string `mapstructure:"class"`
}

type DatabaseConfig struct {
	// Driver selects the persistence implementation: "gorm" or "raw".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("remote.request_timeout", 10*time.Second)
	viper.SetDefault("sync.poll_interval", 3*time.Second)
	viper.SetDefault("sync.focus_interval", 15*time.Second)
	viper.SetDefault("database.driver", "gorm")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
