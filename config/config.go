package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string        `mapstructure:"PORT"`
	MongoURI      string        `mapstructure:"MONGO_URI"`
	MongoDatabase string        `mapstructure:"MONGO_DATABASE"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CartTTL       time.Duration `mapstructure:"CART_TTL"`
	JwtSecret     string        `mapstructure:"JWT_SECRET"`
	PostmarkToken string        `mapstructure:"POSTMARK_API_TOKEN"`
	EmailSender   string        `mapstructure:"EMAIL_SENDER"`
	PublicURL     string        `mapstructure:"PUBLIC_URL"`
	PickupAddress string        `mapstructure:"PICKUP_ADDRESS"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	LogPretty     bool          `mapstructure:"LOG_PRETTY"`
	UploadDir     string        `mapstructure:"UPLOAD_DIR"`
	SubmitTimeout time.Duration `mapstructure:"SUBMIT_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":               "8000",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DATABASE":     "ecommerce",
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"CART_TTL":           72 * time.Hour,
	"JWT_SECRET":         "",
	"POSTMARK_API_TOKEN": "",
	"EMAIL_SENDER":       "",
	"PUBLIC_URL":         "",
	"PICKUP_ADDRESS":     "",
	"LOG_LEVEL":          "info",
	"LOG_PRETTY":         false,
	"UPLOAD_DIR":         "uploads",
	"SUBMIT_TIMEOUT":     30 * time.Second,
}

// Load reads .env when present and then the environment. Every key has a
// default so the environment always wins over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	cf.PublicURL = strings.TrimRight(cf.PublicURL, "/")
	if cf.PublicURL == "" {
		cf.PublicURL = "http://localhost:" + cf.Port
	}
	return cf, nil
}
