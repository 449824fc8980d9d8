package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// InsecureSecret is the fallback signing secret. It must be overridden in
// any real deployment.
const InsecureSecret = "your-secret-key-here"

type Config struct {
	Port        string `envconfig:"PORT" default:"8001"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"ostrich-customer-api"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	SecretKey   string `envconfig:"SECRET_KEY" default:"your-secret-key-here"`

	DB      Database
	Auth    Auth
	Redis   Redis
	AMQP    AMQP
	Kafka   Kafka
	Log     Log
	Support Support
	Uploads Uploads
	HTTP    HTTP
}

type Database struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"mysql"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"3306"`
	User            string        `envconfig:"DB_USER" default:"root"`
	Password        string        `envconfig:"DB_PASSWORD" default:"password"`
	Name            string        `envconfig:"DB_NAME" default:"ostrich_db"`
	TLS             string        `envconfig:"DB_TLS" default:"preferred"`
	QueryTimeout    time.Duration `envconfig:"DB_QUERY_TIMEOUT" default:"5s"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

type Auth struct {
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	OTPMode       string        `envconfig:"OTP_MODE" default:"redis"`
	OTPTTL        time.Duration `envconfig:"OTP_TTL" default:"5m"`
	OTPFixedCode  string        `envconfig:"OTP_FIXED_CODE" default:"123456"`
	OTPMaxTries   int           `envconfig:"OTP_MAX_ATTEMPTS" default:"5"`
	OTPExposeCode bool          `envconfig:"OTP_EXPOSE_CODE" default:"false"`
	ResetTokenTTL time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`
}

type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type AMQP struct {
	URL   string `envconfig:"AMQP_URL"`
	Queue string `envconfig:"DELIVERY_QUEUE" default:"outbound_messages"`
}

type Kafka struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"ostrich.customer-events"`
}

type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type Support struct {
	Phone    string `envconfig:"SUPPORT_PHONE" default:"1800-123-4567"`
	Email    string `envconfig:"SUPPORT_EMAIL" default:"support@ostrich.com"`
	Hours    string `envconfig:"SUPPORT_HOURS" default:"9 AM - 6 PM (Mon-Sat)"`
	WhatsApp string `envconfig:"SUPPORT_WHATSAPP" default:"+91-98765-43210"`
}

type Uploads struct {
	BaseURL  string `envconfig:"UPLOAD_BASE_URL" default:"https://example.com/uploads"`
	MaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
}

type HTTP struct {
	RequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"15s"`
	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.Auth.OTPMode = strings.ToLower(strings.TrimSpace(c.Auth.OTPMode))
	return &c, nil
}

// Addr is the listen address derived from PORT.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) UsesInsecureSecret() bool {
	return c.SecretKey == InsecureSecret || c.SecretKey == ""
}
