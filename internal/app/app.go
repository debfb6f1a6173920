// Package app wires drscreen together: configuration, database, image
// storage, classifier, recommendations and the terminal client.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/drscreen/internal/classifier"
	"github.com/dmitrijs2005/drscreen/internal/cli"
	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/config"
	"github.com/dmitrijs2005/drscreen/internal/controller"
	"github.com/dmitrijs2005/drscreen/internal/credentials"
	"github.com/dmitrijs2005/drscreen/internal/logging"
	"github.com/dmitrijs2005/drscreen/internal/remedies"
	"github.com/dmitrijs2005/drscreen/internal/repositories/repomanager"
	"github.com/dmitrijs2005/drscreen/internal/services"
	"github.com/dmitrijs2005/drscreen/internal/uploads"
)

// Default administrator created by SeedAdmin on an empty database.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
	AdminFullName = "Administrator"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	controller *controller.Controller
	in         io.Reader
	out        io.Writer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	hasher, err := credentials.New(c.PasswordScheme)
	if err != nil {
		return nil, err
	}
	us := services.NewUserService(db, rm, hasher)
	ps := services.NewPredictionService(db, rm)

	store, err := uploads.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("image storage init error: %w", err)
	}

	model, created, err := classifier.LoadOrCreate(c.ModelPath, classifier.WithSeed(c.ModelSeed))
	if err != nil {
		return nil, fmt.Errorf("model init error: %w", err)
	}
	if created {
		logger.Warn(ctx, "no model artifact found, created a placeholder model with random weights", "path", c.ModelPath)
	}

	book, err := remedies.LoadOrCreate(c.RemediesPath)
	if err != nil {
		return nil, fmt.Errorf("recommendations init error: %w", err)
	}

	secret := c.SecretKey
	if secret == "" {
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "no secret key configured, sessions are valid for this run only")
	}

	if c.SeedAdmin {
		u, err := us.EnsureDefaultAdmin(ctx, AdminUsername, AdminEmail, AdminPassword, AdminFullName)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		if u != nil {
			logger.Warn(ctx, "created default admin account, change its password", "username", u.Username)
		}
	}

	ctl := controller.New(controller.Deps{
		Users:            us,
		Predictions:      ps,
		Images:           store,
		Model:            model,
		Remedies:         book,
		Logger:           logger,
		SecretKey:        []byte(secret),
		InferenceTimeout: c.InferenceTimeout,
	})

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		controller: ctl,
		in:         os.Stdin,
		out:        os.Stdout,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the terminal client until the user exits or a termination
// signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	app.logger.Debug(ctx, "starting terminal client")

	done := make(chan struct{})
	go func() {
		defer close(done)
		cli.NewApp(app.controller, app.in, app.out).Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
	}
}

// Close releases the database connection.
func (app *App) Close() error {
	return app.db.Close()
}
