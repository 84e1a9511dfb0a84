package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	OTP       OTPConfig
	Recaptcha RecaptchaConfig
	Mail      MailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type OTPConfig struct {
	// TTL is how long an issued code stays redeemable.
	TTL time.Duration `env:"OTP_TTL,    default=3m"`
	// Digits is the code length. Generated codes never lead with a zero.
	Digits int `env:"OTP_DIGITS, default=8"`
}

type RecaptchaConfig struct {
	Secret   string `env:"RECAPTCHA_SECRET"`
	Endpoint string `env:"RECAPTCHA_ENDPOINT, default=https://www.google.com/recaptcha/api/siteverify"`
}

type MailConfig struct {
	Workers int `env:"MAIL_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
