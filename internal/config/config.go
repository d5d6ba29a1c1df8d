package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `env:"ENV" env-required:"true"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer  HttpServer
	Database    Database
	Limiter     Limiter
	Auth        AuthConfig
	Cache       Cache
	Blacklist   Blacklist
	Maintenance Maintenance
}

type HttpServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	JWT               JWTConfig
	BcryptCost        int    `env:"AUTH_BCRYPT_COST" env-default:"10"`
	AccessCookieName  string `env:"AUTH_ACCESS_COOKIE_NAME" env-default:"access_token"`
	RefreshCookieName string `env:"AUTH_REFRESH_COOKIE_NAME" env-default:"refresh_token"`
	CookieDomain      string `env:"AUTH_COOKIE_DOMAIN" env-default:""`
	CookieSecure      bool   `env:"AUTH_COOKIE_SECURE" env-default:"false"`
}

type JWTConfig struct {
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
}

type Blacklist struct {
	// Backend selects the revocation registry implementation, one of memory/redis.
	Backend       string        `env:"BLACKLIST_BACKEND" env-default:"memory"`
	SweepInterval time.Duration `env:"BLACKLIST_SWEEP_INTERVAL" env-default:"1m"`
	KeyPrefix     string        `env:"BLACKLIST_KEY_PREFIX" env-default:"auth:blacklist:"`
}

type Maintenance struct {
	// PruneSchedule is an asynq scheduler spec, cron expression or "@every <duration>".
	PruneSchedule  string        `env:"MAINTENANCE_PRUNE_SCHEDULE" env-default:"@every 1h"`
	PruneRetention time.Duration `env:"MAINTENANCE_PRUNE_RETENTION" env-default:"720h"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
