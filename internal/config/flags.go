package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/drscreen/internal/flagx"
)

var knownFlags = []string{
	"-d", "-u", "-m", "-r", "-b", "-s", "-p", "-t", "-seed", "-admin", "-l",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key",
}

// parseFlags overlays command-line flags.
//
// Supported flags:
//
//	-d string     database DSN (SQLite path or postgres:// URL)
//	-u string     upload directory
//	-m string     model artifact path
//	-r string     recommendations JSON path
//	-b string     storage backend ("local" or "s3")
//	-s string     session token secret
//	-p string     password scheme ("sha256" or "argon2id")
//	-t duration   inference timeout (e.g. "30s")
//	-seed uint    placeholder model seed
//	-admin        seed the default admin account
//	-l string     log level
//	-s3-*         S3 bucket, region, endpoint, access key, secret key
//
// Other arguments (for instance -c or -env) are filtered out first.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("drscreen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.ModelPath, "m", config.ModelPath, "model artifact path")
	fs.StringVar(&config.RemediesPath, "r", config.RemediesPath, "recommendations file path")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "image storage backend")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret")
	fs.StringVar(&config.PasswordScheme, "p", config.PasswordScheme, "password scheme")
	fs.DurationVar(&config.InferenceTimeout, "t", config.InferenceTimeout, "inference timeout")
	fs.Uint64Var(&config.ModelSeed, "seed", config.ModelSeed, "placeholder model seed")
	fs.BoolVar(&config.SeedAdmin, "admin", config.SeedAdmin, "seed default admin account")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "s3-access-key", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s3-secret-key", config.S3SecretKey, "S3 secret key")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
