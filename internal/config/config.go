package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Generation GenerationConfig `yaml:"generation"`
	Jobs       JobsConfig       `yaml:"jobs"`
	Redis      RedisConf        `yaml:"redis"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

// PricingConfig нулевые и отрицательные значения заменяются стандартными тарифами
type PricingConfig struct {
	ImagePerMegapixelUSD float64 `yaml:"image_per_megapixel_usd" env-default:"0.003"`
	VideoPerSecondUSD    float64 `yaml:"video_per_second_usd" env-default:"0.0333"`
}

type GenerationConfig struct {
	ImageDelay time.Duration `yaml:"image_delay" env-default:"3s"`
	VideoDelay time.Duration `yaml:"video_delay" env-default:"10s"`
	BaseURL    string        `yaml:"base_url" env-default:"https://cdn.genstudio.local/generated"`
}

type JobsConfig struct {
	TTL             time.Duration `yaml:"ttl" env-default:"1h"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env-default:"10m"`
}

// RedisConf пустой адрес отключает архив галереи
type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
