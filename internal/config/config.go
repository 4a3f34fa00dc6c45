package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env-default:"8080"`
	Bot        Bot    `yaml:"bot"`
	Redis      Redis  `yaml:"redis"`
}

type Bot struct {
	// cosmetic pause between the search finishing and the move landing
	ThinkDelayMS int `yaml:"think-delay-ms" env-default:"600"`
}

func (that *Bot) ThinkDelay() time.Duration {
	return time.Duration(that.ThinkDelayMS) * time.Millisecond
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Host    string `yaml:"host" env-default:"localhost"`
	Port    string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
