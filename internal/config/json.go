package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/drscreen/internal/flagx"
	"github.com/dmitrijs2005/drscreen/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both "30s" strings and integer nanoseconds. Absent keys leave the current
// value untouched.
type JsonConfig struct {
	DatabaseDSN      string          `json:"database_dsn"`
	UploadDir        string          `json:"upload_dir"`
	ModelPath        string          `json:"model_path"`
	RemediesPath     string          `json:"remedies_path"`
	StorageBackend   string          `json:"storage_backend"`
	S3AccessKey      string          `json:"s3_access_key"`
	S3SecretKey      string          `json:"s3_secret_key"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	PasswordScheme   string          `json:"password_scheme"`
	SecretKey        string          `json:"secret_key"`
	InferenceTimeout *timex.Duration `json:"inference_timeout"`
	ModelSeed        *uint64         `json:"model_seed"`
	SeedAdmin        *bool           `json:"seed_admin"`
	LogLevel         string          `json:"log_level"`
}

// parseJson overlays values from the file given with -c or -config.
// Nothing happens when neither flag is present.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.ModelPath, c.ModelPath)
	setString(&config.RemediesPath, c.RemediesPath)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.PasswordScheme, c.PasswordScheme)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.InferenceTimeout != nil {
		config.InferenceTimeout = c.InferenceTimeout.Duration
	}
	if c.ModelSeed != nil {
		config.ModelSeed = *c.ModelSeed
	}
	if c.SeedAdmin != nil {
		config.SeedAdmin = *c.SeedAdmin
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
