package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/galleryhub/display-relay/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
}

type DiscordConfig struct {
	Token string
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// RelayConfig holds every knob that shapes relay and command behaviour.
type RelayConfig struct {
	Channels        []string
	CommandPrefix   string
	AvatarSize      string
	ChunkSize       int
	Retries         uint64
	InitialInterval time.Duration
	CommandRate     float64
	CommandBurst    int
	ProbeTimeout    time.Duration
	HelpColor       int
}

func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

func InitViper(path string) error {
	viper.AddConfigPath(path)
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("client.origin", "*")
	viper.SetDefault("relay.channels", []string{"gallery", "test"})
	viper.SetDefault("relay.command_prefix", "!display")
	viper.SetDefault("relay.avatar_size", "64")
	viper.SetDefault("backfill.chunk_size", 400)
	viper.SetDefault("persistence.retries", 3)
	viper.SetDefault("persistence.initial_interval", "200ms")
	viper.SetDefault("commands.rate", 0.2)
	viper.SetDefault("commands.burst", 3)
	viper.SetDefault("image_probe.timeout", "10s")
	viper.SetDefault("discord.help_color", "rgba(88, 101, 242, 1)")

	return viper.ReadInConfig()
}

func DBFromEnv() DBConfig {
	return DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}

func RedisFromEnv() RedisConfig {
	return RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

func DiscordFromEnv() DiscordConfig {
	return DiscordConfig{
		Token: os.Getenv("DISCORD_BOT_TOKEN"),
	}
}

func RelayFromViper() RelayConfig {
	cfg := RelayConfig{
		Channels:        viper.GetStringSlice("relay.channels"),
		CommandPrefix:   viper.GetString("relay.command_prefix"),
		AvatarSize:      viper.GetString("relay.avatar_size"),
		ChunkSize:       viper.GetInt("backfill.chunk_size"),
		Retries:         viper.GetUint64("persistence.retries"),
		InitialInterval: viper.GetDuration("persistence.initial_interval"),
		CommandRate:     viper.GetFloat64("commands.rate"),
		CommandBurst:    viper.GetInt("commands.burst"),
		ProbeTimeout:    viper.GetDuration("image_probe.timeout"),
	}

	if color, ok := utils.ParseRgba(viper.GetString("discord.help_color")); ok {
		cfg.HelpColor = utils.RgbaToHex(color)
	}

	return cfg
}

// Validate rejects configurations the relay cannot run with.
func (c RelayConfig) Validate() error {
	if len(c.Channels) == 0 {
		return fmt.Errorf("relay.channels must list at least one channel")
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("relay.command_prefix must not be empty")
	}
	if c.ChunkSize <= 0 || c.ChunkSize > 500 {
		return fmt.Errorf("backfill.chunk_size must be in (0, 500], got %d", c.ChunkSize)
	}
	return nil
}
