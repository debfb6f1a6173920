package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Analyze reads the image at path and shows the predicted class, the class
// probabilities and the matching recommendation.
func (a *App) Analyze(ctx context.Context, path string) error {
	data, err := a.readFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot read %s: %v\n", path, err)
		return nil
	}

	res, err := a.ctl.Analyze(ctx, a.userID(), data, filepath.Base(path))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Prediction #%d: %s (confidence %.2f%%)\n",
		res.Prediction.ID, res.PredictedClass, res.Confidence*100)
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for i, class := range models.SeverityClasses {
		fmt.Fprintf(tw, "  %s\t%6.2f%%\n", class, res.Probabilities[i]*100)
	}
	tw.Flush()
	fmt.Fprintf(a.out, "Recommendation: %s\n", res.Recommendation)
	return nil
}

// History lists the user's predictions, newest first.
func (a *App) History(ctx context.Context) error {
	list, err := a.ctl.ListHistory(ctx, a.userID())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No scans yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCLASS\tCONFIDENCE\tIMAGE")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f%%\t%s\n",
			p.ID, p.Timestamp.Local().Format(timeLayout), p.PredictedClass, p.Confidence*100, p.ImagePath)
	}
	return tw.Flush()
}

// Summary shows scan counts per class.
func (a *App) Summary(ctx context.Context) error {
	s, err := a.ctl.HistorySummary(ctx, a.userID())
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Total scans: %d\n", s.TotalScans)
	if s.TotalScans == 0 {
		return nil
	}
	fmt.Fprintf(a.out, "Last scan: %s\n", formatTime(s.LastScan))
	for _, c := range s.Counts {
		fmt.Fprintf(a.out, "  %s: %d\n", c.Class, c.Count)
	}
	if s.MostCommon != nil {
		fmt.Fprintf(a.out, "Most common: %s\n", *s.MostCommon)
	}
	return nil
}

// Delete removes one history record.
func (a *App) Delete(ctx context.Context, id int64) error {
	if err := a.ctl.DeleteHistoryItem(ctx, a.userID(), id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Record %d deleted.\n", id)
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format(timeLayout)
}
