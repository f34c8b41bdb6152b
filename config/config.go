// Package config loads object-storage settings from RUNSTORE_-prefixed
// environment variables. Defaults target a local MinIO started with its
// stock credentials.
package config

import (
	"context"

	env "github.com/caarlos0/env/v11"

	"github.com/GoCodeAlone/runstore/artifact"
)

// Config is the storage backend configuration surface.
type Config struct {
	Endpoint  string `env:"ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"SECRET_KEY" envDefault:"minioadmin"`
	UseTLS    bool   `env:"USE_TLS"    envDefault:"false"`
	Bucket    string `env:"BUCKET"     envDefault:"runstore-artifacts"`
	Region    string `env:"REGION"     envDefault:"us-east-1"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "RUNSTORE_"}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Backend builds the S3 backend described by the configuration.
func (c *Config) Backend(ctx context.Context) (*artifact.S3Backend, error) {
	return artifact.NewS3Backend(ctx, artifact.S3Options{
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		UseTLS:    c.UseTLS,
		Bucket:    c.Bucket,
		Region:    c.Region,
	})
}
