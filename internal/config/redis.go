package config

import (
    "context"
    "crypto/tls"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the shared Redis client from the loaded Config.
// Redis backs the response cache and the rate limiter; both are optional,
// so a failed ping yields nil and the middleware degrades to pass-through
// instead of keeping the API from starting.
func NewRedisClient(cfg Config) *redis.Client {
    var tlsConf *tls.Config
    if cfg.RedisTLS {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      cfg.RedisAddr,
        Password:  cfg.RedisPassword,
        DB:        cfg.RedisDB,
        TLSConfig: tlsConf,
    })

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
