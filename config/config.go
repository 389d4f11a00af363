// server/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// --- Sub-configs, mirroring config.yaml ---

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	// RequireToken makes the requisition and stock routes reject callers
	// without a valid bearer token.
	RequireToken bool `mapstructure:"requireToken"`
	BcryptCost   int  `mapstructure:"bcryptCost"`
}

// FixturesConfig selects where seed data comes from: "embedded", "dir" or "s3".
type FixturesConfig struct {
	Source string `mapstructure:"source"`
	Dir    string `mapstructure:"dir"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

// MongoConfig enables the event archive when URI is set.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	DBName     string `mapstructure:"dbName"`
	Collection string `mapstructure:"collection"`
}

type EventsConfig struct {
	MaxEvents int `mapstructure:"maxEvents"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// --- Root config ---

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Fixtures FixturesConfig `mapstructure:"fixtures"`
	S3       S3Config       `mapstructure:"s3"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Events   EventsConfig   `mapstructure:"events"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5003")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("auth.jwtSecret", "lmis-mock-secret")
	v.SetDefault("auth.tokenTTL", time.Hour)
	v.SetDefault("auth.requireToken", false)
	v.SetDefault("auth.bcryptCost", 10)
	v.SetDefault("fixtures.source", "embedded")
	v.SetDefault("fixtures.dir", "./data")
	v.SetDefault("mongo.dbName", "lmis_mock")
	v.SetDefault("mongo.collection", "events")
	v.SetDefault("events.maxEvents", 100)
	v.SetDefault("cors.allowedOrigins", []string{"*"})
}

// LoadConfig reads config.yaml from path, then overrides it with
// environment variables.
func LoadConfig(path string) (Config, error) {
	return Load(viper.GetViper(), path)
}

// Load is LoadConfig on an explicit viper instance.
func Load(v *viper.Viper, path string) (config Config, err error) {
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	SetDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.port", "SERVER_PORT", "PORT")
	v.BindEnv("server.mode", "GIN_MODE")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("auth.jwtSecret", "JWT_SECRET")
	v.BindEnv("auth.tokenTTL", "JWT_EXPIRATION")
	v.BindEnv("auth.requireToken", "AUTH_REQUIRE_TOKEN")
	v.BindEnv("fixtures.source", "FIXTURES_SOURCE")
	v.BindEnv("fixtures.dir", "FIXTURES_DIR")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.prefix", "S3_PREFIX")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("events.maxEvents", "EVENTS_MAX")

	// A missing config.yaml is fine: defaults and env still apply.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
