package main

import (
	"fmt"
	"os"
	"time"

	"github.com/khryptorgraphics/ftrmff/pkg/model"
	"gopkg.in/yaml.v3"
)

// taskDescriptor is the on-disk representation of a task: periods and
// WCETs are given in milliseconds (fractional values are accepted).
type taskDescriptor struct {
	ID       string  `yaml:"id"`
	PeriodMS float64 `yaml:"period_ms"`
	WCETMS   float64 `yaml:"wcet_ms"`
}

// scheduleDescriptor is the on-disk representation of a full
// scheduling request.
type scheduleDescriptor struct {
	Processors       []string         `yaml:"processors"`
	Tasks            []taskDescriptor `yaml:"tasks"`
	ConsistencyLevel int              `yaml:"consistency_level"`
}

func loadDescriptor(path string) (*scheduleDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var d scheduleDescriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &d, nil
}

func (d *scheduleDescriptor) tasks() []model.Task {
	out := make([]model.Task, len(d.Tasks))
	for i, t := range d.Tasks {
		out[i] = model.Task{
			ID:     t.ID,
			Period: time.Duration(t.PeriodMS * float64(time.Millisecond)),
			WCET:   time.Duration(t.WCETMS * float64(time.Millisecond)),
		}
	}
	return out
}
