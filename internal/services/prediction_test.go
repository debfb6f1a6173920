package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePrediction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.CreateUser(ctx, "alice", "a@x.com", "pw", nil)
	require.NoError(t, err)

	p, err := f.preds.SavePrediction(ctx, u.ID, "uploads/a.png", models.SeverityModerate, 0.8)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, u.ID, p.UserID)
	assert.False(t, p.Timestamp.IsZero())
	assert.Equal(t, time.UTC, p.Timestamp.Location())
}

func TestSavePrediction_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.preds.SavePrediction(context.Background(), 77, "x.png", models.SeverityMild, 0.5)
	assert.ErrorIs(t, err, common.ErrorForeignKeyViolation)
	assert.Equal(t, 0, f.countRows(t, "predictions"))
}

func TestSavePrediction_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.CreateUser(ctx, "alice", "a@x.com", "pw", nil)
	require.NoError(t, err)

	cases := []struct {
		class models.Severity
		conf  float64
	}{
		{"No DR", 0.5},
		{models.SeverityMild, -0.01},
		{models.SeverityMild, 1.01},
		{models.SeverityMild, math.NaN()},
	}
	for _, c := range cases {
		_, err := f.preds.SavePrediction(ctx, u.ID, "x.png", c.class, c.conf)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}

	for _, conf := range []float64{0, 1} {
		_, err := f.preds.SavePrediction(ctx, u.ID, "x.png", models.SeverityMild, conf)
		assert.NoError(t, err)
	}
}

func TestGetPredictionsForUser_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.CreateUser(ctx, "alice", "a@x.com", "pw", nil)
	require.NoError(t, err)

	var ids []int64
	for _, c := range []models.Severity{models.SeverityMild, models.SeveritySevere, models.SeverityModerate} {
		p, err := f.preds.SavePrediction(ctx, u.ID, "x.png", c, 0.5)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	list, err := f.preds.GetPredictionsForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Timestamp.After(list[i-1].Timestamp))
	}
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)
}

func TestGetPredictionsForUser_EqualTimestampsTieBreakOnID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.CreateUser(ctx, "alice", "a@x.com", "pw", nil)
	require.NoError(t, err)

	f.clock.step = 0
	f.clock.Set(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))

	first, err := f.preds.SavePrediction(ctx, u.ID, "1.png", models.SeverityMild, 0.5)
	require.NoError(t, err)
	second, err := f.preds.SavePrediction(ctx, u.ID, "2.png", models.SeverityMild, 0.5)
	require.NoError(t, err)

	list, err := f.preds.GetPredictionsForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestGetPredictionsForUser_Empty(t *testing.T) {
	f := newFixture(t)

	list, err := f.preds.GetPredictionsForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDeletePrediction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.CreateUser(ctx, "alice", "a@x.com", "pw", nil)
	require.NoError(t, err)
	p, err := f.preds.SavePrediction(ctx, u.ID, "uploads/a.png", models.SeverityMild, 0.5)
	require.NoError(t, err)

	got, err := f.preds.GetPrediction(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	deleted, err := f.preds.DeletePrediction(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/a.png", deleted.ImagePath)

	_, err = f.preds.DeletePrediction(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.preds.GetPrediction(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.CreateUser(ctx, "alice", "a@x.com", "pw", nil)
	require.NoError(t, err)

	empty, err := f.preds.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalScans)
	assert.Nil(t, empty.LastScan)
	assert.Nil(t, empty.MostCommon)
	require.Len(t, empty.Counts, models.NumClasses)

	// Severe and Moderate tie at two; Moderate is listed first.
	for _, c := range []models.Severity{
		models.SeveritySevere, models.SeverityModerate, models.SeveritySevere, models.SeverityModerate, models.SeverityMild,
	} {
		_, err := f.preds.SavePrediction(ctx, u.ID, "x.png", c, 0.5)
		require.NoError(t, err)
	}

	s, err := f.preds.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalScans)
	require.NotNil(t, s.MostCommon)
	assert.Equal(t, models.SeverityModerate, *s.MostCommon)
	assert.Equal(t, []models.ClassCount{
		{Class: models.SeverityMild, Count: 1},
		{Class: models.SeverityModerate, Count: 2},
		{Class: models.SeveritySevere, Count: 2},
		{Class: models.SeverityProliferative, Count: 0},
	}, s.Counts)

	list, err := f.preds.GetPredictionsForUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, s.LastScan)
	assert.True(t, list[0].Timestamp.Equal(*s.LastScan))
}
