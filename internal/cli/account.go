package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/drscreen/internal/common"
)

// Profile prints the account details.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.ctl.Profile(ctx, a.userID())
	if err != nil {
		return err
	}

	fullName := "-"
	if u.FullName != nil && *u.FullName != "" {
		fullName = *u.FullName
	}
	fmt.Fprintf(a.out, "Username:     %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:        %s\n", u.Email)
	fmt.Fprintf(a.out, "Full name:    %s\n", fullName)
	fmt.Fprintf(a.out, "Member since: %s\n", formatTime(&u.CreatedAt))
	fmt.Fprintf(a.out, "Last login:   %s\n", formatTime(u.LastLogin))
	return nil
}

// EditProfile asks for a new full name and email. A blank answer keeps the
// current value; "-" clears the full name.
func (a *App) EditProfile(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Full name (blank keeps current, '-' clears)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (blank keeps current)", a.out)
	if err != nil {
		return err
	}

	var namePtr, emailPtr *string
	switch fullName {
	case "":
	case "-":
		empty := ""
		namePtr = &empty
	default:
		namePtr = &fullName
	}
	if email != "" {
		emailPtr = &email
	}
	if namePtr == nil && emailPtr == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	if _, err := a.ctl.UpdateProfile(ctx, a.userID(), namePtr, emailPtr); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// Passwd changes the password after checking the current one.
func (a *App) Passwd(ctx context.Context) error {
	current, err := getPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	newPassword, ok, err := a.readNewPassword("New password")
	if err != nil || !ok {
		return err
	}
	defer common.WipeByteArray(newPassword)

	if err := a.ctl.ChangePassword(ctx, a.userID(), string(current), string(newPassword)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

// DeleteAccount removes the account and all its scans after confirmation,
// then logs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to delete your account and all scans permanently", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.ctl.DeleteAccount(ctx, a.userID()); err != nil {
		return err
	}
	a.session = nil
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
