/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/courseport/internal/tutor"
)

// Settings overrides the stock quiz and assignment option values for one
// run. Unset fields keep their defaults; per-entity source values (time
// limit, attempts, marks) still win over these.
type Settings struct {
	Quiz struct {
		AttemptsAllowed *int    `yaml:"attempts_allowed"`
		PassingGrade    *int    `yaml:"passing_grade"`
		FeedbackMode    *string `yaml:"feedback_mode"`
	} `yaml:"quiz"`
	Assignment struct {
		UploadFilesLimit    *int     `yaml:"upload_files_limit"`
		UploadFileSizeLimit *int     `yaml:"upload_file_size_limit"`
		PassRatio           *float64 `yaml:"pass_ratio"`
	} `yaml:"assignment"`
}

// LoadSettings reads a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	if g := s.Quiz.PassingGrade; g != nil && (*g < 0 || *g > 100) {
		return fmt.Errorf("quiz.passing_grade must be between 0 and 100, got %d", *g)
	}
	if r := s.Assignment.PassRatio; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("assignment.pass_ratio must be between 0 and 1, got %g", *r)
	}
	return nil
}

func (s *Settings) applyQuiz(opt *tutor.QuizOption) {
	if s == nil {
		return
	}
	if s.Quiz.AttemptsAllowed != nil {
		opt.AttemptsAllowed = *s.Quiz.AttemptsAllowed
	}
	if s.Quiz.PassingGrade != nil {
		opt.PassingGrade = *s.Quiz.PassingGrade
	}
	if s.Quiz.FeedbackMode != nil {
		opt.FeedbackMode = *s.Quiz.FeedbackMode
	}
}

func (s *Settings) applyAssignment(opt *tutor.AssignmentOption) {
	if s == nil {
		return
	}
	if s.Assignment.UploadFilesLimit != nil {
		opt.UploadFilesLimit = *s.Assignment.UploadFilesLimit
	}
	if s.Assignment.UploadFileSizeLimit != nil {
		opt.UploadFileSizeLimit = *s.Assignment.UploadFileSizeLimit
	}
}

// passRatio is the pass-mark fraction of an assignment's total points.
func (s *Settings) passRatio() float64 {
	if s != nil && s.Assignment.PassRatio != nil {
		return *s.Assignment.PassRatio
	}
	return 0.6
}
