package models

import "fmt"

// Severity is a diabetic retinopathy severity class label.
type Severity string

const (
	SeverityMild          Severity = "Mild"
	SeverityModerate      Severity = "Moderate"
	SeveritySevere        Severity = "Severe"
	SeverityProliferative Severity = "Proliferative DR"
)

// SeverityClasses lists the classes in classifier output order, which is
// also clinical severity order.
var SeverityClasses = []Severity{
	SeverityMild,
	SeverityModerate,
	SeveritySevere,
	SeverityProliferative,
}

// NumClasses is the length of a classifier probability vector.
const NumClasses = 4

// SeverityAt maps a classifier output index to its class.
func SeverityAt(i int) (Severity, error) {
	if i < 0 || i >= len(SeverityClasses) {
		return "", fmt.Errorf("class index %d out of range", i)
	}
	return SeverityClasses[i], nil
}

// Index returns the position of s in SeverityClasses, or -1.
func (s Severity) Index() int {
	for i, c := range SeverityClasses {
		if c == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known classes.
func (s Severity) Valid() bool {
	return s.Index() >= 0
}

func (s Severity) String() string {
	return string(s)
}
