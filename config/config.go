package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Host        string        `env:"HOST" envDefault:"0.0.0.0"`
	Port        uint          `env:"PORT" envDefault:"8080"`
	DBUrl       string        `env:"DB_URL" envDefault:"formloop.sqlite"`
	ClientURL   string        `env:"CLIENT_URL" envDefault:"http://localhost:3000"`
	TokenSecret string        `env:"TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	OTPTTL      time.Duration `env:"OTP_TTL" envDefault:"10m"`
	SMTPHost    string        `env:"SMTP_HOST"`
	SMTPPort    uint          `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser    string        `env:"SMTP_USER"`
	SMTPPass    string        `env:"SMTP_PASS"`
	EmailFrom   string        `env:"EMAIL_FROM"`
	Debug       bool          `env:"DEBUG"`
}

// Load reads configuration from a .env file (if present) and the
// environment, then lets a few command line flags override it.
func Load() (cfg Config, err error) {
	_ = godotenv.Load()

	err = env.Parse(&cfg)
	if err != nil {
		return
	}

	flag.StringVar(&cfg.Host, "host", cfg.Host, "listen host name")
	flag.UintVar(&cfg.Port, "port", cfg.Port, "listen port number")
	flag.StringVar(&cfg.DBUrl, "db-url", cfg.DBUrl, "path to SQLite3 DB file")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log at DEBUG level")
	flag.Parse()

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter TOKEN_SECRET")
	}

	return
}

func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))
}

func (cfg Config) Url() string {
	addr := cfg.Addr()
	addr = strings.Replace(addr, "0.0.0.0", "localhost", 1)
	return "http://" + addr
}

// ShareLink is the public URL respondents use to open a form.
func (cfg Config) ShareLink(slug string) string {
	return strings.TrimSuffix(cfg.ClientURL, "/") + "/f/" + slug
}
