package controller

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/drscreen/internal/auth"
	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

var errSecretNotConfigured = errors.New("session secret is not configured")

// Session identifies a logged-in user. The presentation layer holds it and
// passes UserID to controller calls.
type Session struct {
	UserID   int64
	Username string
	Token    string
}

func (c *Controller) newSession(u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID, c.secret)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: u.ID, Username: u.Username, Token: token}, nil
}

// Signup registers a new account.
func (c *Controller) Signup(ctx context.Context, username, email, password string, fullName *string) (u *models.User, err error) {
	defer c.guard(ctx, "signup", &err)

	u, err = c.users.CreateUser(ctx, username, email, password, fullName)
	if err != nil {
		return nil, err
	}
	c.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and opens a session. Authenticate records the
// login time, so a controller that cannot sign tokens refuses before that.
func (c *Controller) Login(ctx context.Context, username, password string) (s *Session, err error) {
	defer c.guard(ctx, "login", &err)

	if len(c.secret) == 0 {
		return nil, errSecretNotConfigured
	}
	u, err := c.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.newSession(u)
}

// ResumeSession rebuilds a Session from a token issued by Login.
func (c *Controller) ResumeSession(ctx context.Context, token string) (s *Session, err error) {
	defer c.guard(ctx, "resume_session", &err)

	id, err := auth.GetUserIDFromToken(token, c.secret)
	if err != nil {
		return nil, err
	}
	u, err := c.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidToken
		}
		return nil, err
	}
	return &Session{UserID: u.ID, Username: u.Username, Token: token}, nil
}
