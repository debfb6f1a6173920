package controller

import (
	"context"

	"github.com/dmitrijs2005/drscreen/internal/models"
)

// Profile returns the user's record.
func (c *Controller) Profile(ctx context.Context, userID int64) (u *models.User, err error) {
	defer c.guard(ctx, "profile", &err)
	return c.users.GetUserByID(ctx, userID)
}

// UpdateProfile changes full name and/or email; nil leaves a field as is.
func (c *Controller) UpdateProfile(ctx context.Context, userID int64, fullName, email *string) (u *models.User, err error) {
	defer c.guard(ctx, "update_profile", &err)
	return c.users.UpdateProfile(ctx, userID, fullName, email)
}

func (c *Controller) ChangePassword(ctx context.Context, userID int64, current, newPassword string) (err error) {
	defer c.guard(ctx, "change_password", &err)

	if err := c.users.ChangePassword(ctx, userID, current, newPassword); err != nil {
		return err
	}
	c.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// DeleteAccount removes the user with all predictions, then deletes the
// stored images. Image removal failures are logged only.
func (c *Controller) DeleteAccount(ctx context.Context, userID int64) (err error) {
	defer c.guard(ctx, "delete_account", &err)

	paths, err := c.users.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, p := range paths {
		c.discardImage(ctx, p)
	}
	c.log.Info(ctx, "account deleted", "user_id", userID, "images", len(paths))
	return nil
}
