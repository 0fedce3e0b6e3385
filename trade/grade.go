package trade

import (
	"fmt"
	"strings"
)

// Grade ranks candidate quality. The ordering is B < A < A+.
type Grade int

const (
	GradeB Grade = iota
	GradeA
	GradeAPlus
)

func (g Grade) String() string {
	switch g {
	case GradeAPlus:
		return "A+"
	case GradeA:
		return "A"
	default:
		return "B"
	}
}

func ParseGrade(s string) (Grade, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A+", "APLUS":
		return GradeAPlus, nil
	case "A":
		return GradeA, nil
	case "B", "":
		return GradeB, nil
	}
	return GradeB, fmt.Errorf("unknown grade %q", s)
}

func (g Grade) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Grade) UnmarshalText(b []byte) error {
	v, err := ParseGrade(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// GradeThresholds map a score to a grade.
type GradeThresholds struct {
	APlus float64
	A     float64
}

func DefaultGradeThresholds() GradeThresholds {
	return GradeThresholds{APlus: 2.0, A: 1.2}
}

func (t GradeThresholds) Grade(score float64) Grade {
	switch {
	case score >= t.APlus:
		return GradeAPlus
	case score >= t.A:
		return GradeA
	default:
		return GradeB
	}
}
