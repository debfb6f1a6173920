// Package config handles drscreen configuration: defaults, an optional JSON
// file, environment variables (optionally loaded from a .env file) and
// command-line flags, applied in that order.
package config

import (
	"os"
	"time"
)

// Storage backends for uploaded images.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Password digest schemes for newly hashed passwords.
const (
	SchemeSHA256   = "sha256"
	SchemeArgon2id = "argon2id"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDSN: SQLite file path, or a postgres:// URL to use PostgreSQL.
//   - UploadDir: flat directory for uploaded images (local backend).
//   - ModelPath / RemediesPath: classifier artifact and recommendations file.
//   - StorageBackend: "local" or "s3".
//   - S3*: settings of the S3-compatible backend.
//   - PasswordScheme: digest scheme for new passwords ("sha256" or "argon2id").
//   - SecretKey: HMAC key for session tokens; generated at start when empty.
//   - InferenceTimeout: upper bound for one classifier run.
//   - ModelSeed: weight seed for a newly created placeholder model (0 = random).
//   - SeedAdmin: create the default admin account on an empty database.
type Config struct {
	DatabaseDSN      string
	UploadDir        string
	ModelPath        string
	RemediesPath     string
	StorageBackend   string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	PasswordScheme   string
	SecretKey        string
	InferenceTimeout time.Duration
	ModelSeed        uint64
	SeedAdmin        bool
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
// NOTE: S3 credentials below match a local MinIO and are not for production.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "data/drscreen.db"
	c.UploadDir = "uploads"
	c.ModelPath = "model/model.pb"
	c.RemediesPath = "remedies.json"
	c.StorageBackend = StorageLocal
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "fundus"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PasswordScheme = SchemeSHA256
	c.SecretKey = ""
	c.InferenceTimeout = 30 * time.Second
	c.ModelSeed = 0
	c.SeedAdmin = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config, then the
// environment, then flags found in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
