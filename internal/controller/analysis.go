package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/classifier"
	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/imaging"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

// AnalysisResult is the outcome of one Analyze call.
type AnalysisResult struct {
	Prediction     *models.Prediction
	PredictedClass models.Severity
	Confidence     float64
	// Probabilities follow models.SeverityClasses order.
	Probabilities  [models.NumClasses]float64
	Recommendation string
}

// Analyze stores the image, classifies it and records the prediction. If
// any step after storing fails, the image is removed again and no
// prediction is recorded.
func (c *Controller) Analyze(ctx context.Context, userID int64, data []byte, filename string) (res *AnalysisResult, err error) {
	defer c.guard(ctx, "analyze", &err)

	start := time.Now()
	path, err := c.images.Save(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	res, err = c.classifyAndSave(ctx, userID, path, data)
	if err != nil {
		c.discardImage(ctx, path)
		c.log.Warn(ctx, "analysis failed", "user_id", userID, "error", err)
		return nil, err
	}

	c.log.Info(ctx, "analysis complete",
		"user_id", userID,
		"prediction_id", res.Prediction.ID,
		"class", res.PredictedClass,
		"confidence", res.Confidence,
		"elapsed", time.Since(start))
	return res, nil
}

func (c *Controller) classifyAndSave(ctx context.Context, userID int64, path string, data []byte) (res *AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis panic: %v", r)
		}
	}()

	tensor, err := imaging.Preprocess(data)
	if err != nil {
		return nil, err
	}

	ictx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	probs, err := c.model.Predict(ictx, tensor)
	if err != nil {
		return nil, err
	}
	if len(probs) != models.NumClasses {
		return nil, fmt.Errorf("%w: model returned %d outputs", common.ErrorInference, len(probs))
	}
	for i, p := range probs {
		if v := float64(p); math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: probability %d is %v", common.ErrorInference, i, p)
		}
	}

	idx := classifier.Argmax(probs)
	class, err := models.SeverityAt(idx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInference, err)
	}
	confidence := float64(probs[idx])

	p, err := c.preds.SavePrediction(ctx, userID, path, class, confidence)
	if err != nil {
		return nil, err
	}

	res = &AnalysisResult{
		Prediction:     p,
		PredictedClass: class,
		Confidence:     confidence,
		Recommendation: c.book.For(class),
	}
	for i, v := range probs {
		res.Probabilities[i] = float64(v)
	}
	return res, nil
}

// discardImage removes a stored image, logging failures. It runs even when
// ctx is already cancelled.
func (c *Controller) discardImage(ctx context.Context, path string) {
	if err := c.images.Remove(context.WithoutCancel(ctx), path); err != nil {
		c.log.Warn(ctx, "image cleanup failed", "path", path, "error", err)
	}
}

// Recommendation returns the advice text for class.
func (c *Controller) Recommendation(class models.Severity) string {
	return c.book.For(class)
}
