package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/drscreen/internal/controller"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

// Controller is the subset of *controller.Controller the terminal client uses.
type Controller interface {
	Signup(ctx context.Context, username, email, password string, fullName *string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*controller.Session, error)
	Analyze(ctx context.Context, userID int64, data []byte, filename string) (*controller.AnalysisResult, error)
	ListHistory(ctx context.Context, userID int64) ([]*models.Prediction, error)
	HistorySummary(ctx context.Context, userID int64) (*models.HistorySummary, error)
	DeleteHistoryItem(ctx context.Context, userID, predictionID int64) error
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, email *string) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, current, newPassword string) error
	DeleteAccount(ctx context.Context, userID int64) error
}

type App struct {
	ctl      Controller
	session  *controller.Session
	reader   *bufio.Reader
	out      io.Writer
	readFile func(string) ([]byte, error)
}

// NewApp builds a client reading commands from in and writing to out.
func NewApp(ctl Controller, in io.Reader, out io.Writer) *App {
	return &App{
		ctl:      ctl,
		reader:   bufio.NewReader(in),
		out:      out,
		readFile: os.ReadFile,
	}
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to drscreen, diabetic retinopathy screening (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.session.Username)
}

func (a *App) userID() int64 {
	return a.session.UserID
}
