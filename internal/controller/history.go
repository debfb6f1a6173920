package controller

import (
	"context"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

// ListHistory returns the user's predictions, newest first.
func (c *Controller) ListHistory(ctx context.Context, userID int64) (list []*models.Prediction, err error) {
	defer c.guard(ctx, "list_history", &err)
	return c.preds.GetPredictionsForUser(ctx, userID)
}

// HistorySummary returns per-class counts and the most common class.
func (c *Controller) HistorySummary(ctx context.Context, userID int64) (s *models.HistorySummary, err error) {
	defer c.guard(ctx, "history_summary", &err)
	return c.preds.Summary(ctx, userID)
}

// DeleteHistoryItem deletes one of the user's predictions and its image.
// Predictions of other users are reported as common.ErrorNotFound.
func (c *Controller) DeleteHistoryItem(ctx context.Context, userID, predictionID int64) (err error) {
	defer c.guard(ctx, "delete_history_item", &err)

	p, err := c.preds.GetPrediction(ctx, predictionID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return common.ErrorNotFound
	}
	if _, err := c.preds.DeletePrediction(ctx, predictionID); err != nil {
		return err
	}
	c.discardImage(ctx, p.ImagePath)
	return nil
}

// ImageURL returns where a stored image can be viewed.
func (c *Controller) ImageURL(ctx context.Context, path string) (url string, err error) {
	defer c.guard(ctx, "image_url", &err)
	return c.images.URL(ctx, path)
}
