package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "DRSCREEN_"

// defaultEnvFile is loaded when present and -env is not given.
var defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment (without
// overriding variables already set) and then overlays DRSCREEN_* variables.
func parseEnv(config *Config, args []string) error {
	path := flagx.EnvFileFlag(args)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
	}

	strs := map[string]*string{
		"DATABASE_DSN":     &config.DatabaseDSN,
		"UPLOAD_DIR":       &config.UploadDir,
		"MODEL_PATH":       &config.ModelPath,
		"REMEDIES_PATH":    &config.RemediesPath,
		"STORAGE_BACKEND":  &config.StorageBackend,
		"S3_ACCESS_KEY":    &config.S3AccessKey,
		"S3_SECRET_KEY":    &config.S3SecretKey,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"PASSWORD_SCHEME":  &config.PasswordScheme,
		"SECRET_KEY":       &config.SecretKey,
		"LOG_LEVEL":        &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "INFERENCE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sINFERENCE_TIMEOUT: %w", EnvPrefix, err)
		}
		config.InferenceTimeout = d
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MODEL_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMODEL_SEED: %w", EnvPrefix, err)
		}
		config.ModelSeed = seed
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SEED_ADMIN"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEED_ADMIN: %w", EnvPrefix, err)
		}
		config.SeedAdmin = b
	}
	return nil
}
