package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/drscreen/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// readNewPassword asks for a password twice. ok is false when the entries
// differ; a message has been printed in that case.
func (a *App) readNewPassword(prompt string) (pw []byte, ok bool, err error) {
	pw, err = getPassword(a.reader, prompt, a.out)
	if err != nil {
		return nil, false, err
	}
	confirm, err := getPassword(a.reader, "Confirm "+prompt, a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, false, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		fmt.Fprintln(a.out, "Passwords do not match.")
		return nil, false, nil
	}
	return pw, true, nil
}

// Signup prompts for account details and registers a new user. The user
// has to log in afterwards.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, ok, err := a.readNewPassword("Password")
	if err != nil || !ok {
		return err
	}
	defer common.WipeByteArray(password)

	fullName, err := getSimpleText(a.reader, "Full name (optional)", a.out)
	if err != nil {
		return err
	}
	var name *string
	if fullName != "" {
		name = &fullName
	}

	if _, err := a.ctl.Signup(ctx, username, email, string(password), name); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created. You can now log in.")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.ctl.Login(ctx, username, string(password))
	if err != nil {
		return err
	}
	a.session = s
	fmt.Fprintf(a.out, "Logged in as %s.\n", s.Username)
	return nil
}

// Logout drops the current session.
func (a *App) Logout(ctx context.Context) error {
	a.session = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
