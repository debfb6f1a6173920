// Package remedies maps severity classes to patient-facing recommendations
// stored in a JSON file.
package remedies

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/filex"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

// Defaults is written to a new recommendations file.
var Defaults = map[string]string{
	string(models.SeverityMild):          "Regular eye check-ups every 12 months. Control blood sugar levels.",
	string(models.SeverityModerate):      "Eye check-ups every 6-8 months. Blood sugar control and blood pressure management.",
	string(models.SeveritySevere):        "Frequent eye examinations every 3-4 months. Possible laser treatment may be needed.",
	string(models.SeverityProliferative): "Immediate medical attention required. Treatments include laser surgery, anti-VEGF injections, or vitrectomy.",
}

// Book holds the loaded recommendations.
type Book struct {
	entries map[string]string
}

// LoadOrCreate reads the file at path, creating it with Defaults first when
// it does not exist.
func LoadOrCreate(path string) (*Book, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeDefaults(path); err != nil {
			return nil, err
		}
		return New(Defaults), nil
	}
	if err != nil {
		return nil, err
	}

	entries := map[string]string{}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return New(entries), nil
}

func writeDefaults(path string) error {
	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	b, err := json.MarshalIndent(Defaults, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// New wraps an in-memory mapping.
func New(entries map[string]string) *Book {
	cp := make(map[string]string, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return &Book{entries: cp}
}

// For returns the recommendation for class, or common.UnknownRecommendation.
func (b *Book) For(class models.Severity) string {
	if r, ok := b.entries[string(class)]; ok {
		return r
	}
	return common.UnknownRecommendation
}
