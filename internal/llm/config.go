package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskPlanSuggest asks the model for a proposed intervention schedule.
	TaskPlanSuggest TaskType = "plan_suggest"
	// TaskPlanRepair re-asks with the previous output and its parse error.
	TaskPlanRepair TaskType = "plan_repair"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with the planning assistant disabled.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskPlanSuggest: {Temperature: 0.2, MaxTokens: 4096, TimeoutMs: 60000},
			TaskPlanRepair:  {Temperature: 0.0, MaxTokens: 4096, TimeoutMs: 30000},
		},
	}
}

// LoadConfig returns the defaults overlaid with CHANTIER_LLM_* variables.
func LoadConfig() LLMConfig {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overlays CHANTIER_LLM_* environment variables on cfg. Unparseable
// values are ignored.
func ApplyEnv(cfg LLMConfig) LLMConfig {
	if v := os.Getenv("CHANTIER_LLM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}
	if v := os.Getenv("CHANTIER_LLM_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	if v := os.Getenv("CHANTIER_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CHANTIER_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if n, ok := positiveEnv("CHANTIER_LLM_TIMEOUT_MS"); ok {
		cfg.TimeoutMs = n
	}
	if v := os.Getenv("CHANTIER_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if n, ok := positiveEnv("CHANTIER_LLM_PLAN_TIMEOUT_MS"); ok {
		cfg = cfg.WithTaskTimeout(TaskPlanSuggest, n)
	}
	return cfg
}

// WithTaskTimeout returns a copy of c with task's timeout set to ms.
func (c LLMConfig) WithTaskTimeout(task TaskType, ms int) LLMConfig {
	tasks := make(map[TaskType]TaskConfig, len(c.Tasks))
	for k, v := range c.Tasks {
		tasks[k] = v
	}
	tc := tasks[task]
	tc.TimeoutMs = ms
	tasks[task] = tc
	c.Tasks = tasks
	return c
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func positiveEnv(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
