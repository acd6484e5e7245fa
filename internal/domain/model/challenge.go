package model

import "strings"

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "Easy"
	DifficultyMedium ChallengeDifficulty = "Medium"
	DifficultyHard   ChallengeDifficulty = "Hard"
)

const (
	CourseCpp        = "C++"
	CourseAlgorithms = "Algorithms"
)

// PracticeLanguages are the course names served by the practice view.
// The challenge list's back target depends on membership here.
var PracticeLanguages = []string{"C", "C++", "Java", "Python", "JavaScript"}

// TestCase is one input/expected-output pair of a challenge. Locked
// cases cannot be edited or removed in the admin challenge editor.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Locked         bool   `json:"locked,omitempty"`
}

// Challenge is a single coding-problem definition. IDs are unique
// across the merged default+admin-created set.
type Challenge struct {
	ID           int                 `json:"id"`
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Difficulty   ChallengeDifficulty `json:"difficulty"`
	Category     string              `json:"category"`
	Score        int                 `json:"score"`
	SuccessRate  string              `json:"success_rate"`
	Description  string              `json:"description"`
	InputFormat  string              `json:"input_format"`
	OutputFormat string              `json:"output_format"`
	Constraints  string              `json:"constraints"`
	Boilerplate  string              `json:"boilerplate,omitempty"`
	TestCases    []TestCase          `json:"test_cases"`
}

// CourseOf classifies a challenge for the editor's course context:
// titles mentioning C++ belong to the C++ course, everything else to
// Algorithms.
func (c *Challenge) CourseOf() string {
	if strings.Contains(c.Title, CourseCpp) {
		return CourseCpp
	}
	return CourseAlgorithms
}

// IsPracticeLanguage reports whether name is one of the practice
// course names.
func IsPracticeLanguage(name string) bool {
	for _, lang := range PracticeLanguages {
		if lang == name {
			return true
		}
	}
	return false
}
