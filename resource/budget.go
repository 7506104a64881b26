package resource

// Default ceilings applied by Budget.ApplyDefaults.
const (
	DefaultIOIntensiveCeiling = 3
	DefaultPerTaskMemoryCapMB = 2048
	DefaultTimeoutMultiplier  = 1.0
)

// Budget is the run-level resource configuration. It is read-only for the
// duration of a run; no component mutates it.
type Budget struct {
	// MaxParallel is the hard ceiling on concurrently running tasks.
	MaxParallel int `json:"max_parallel" yaml:"max_parallel" mapstructure:"max_parallel" validate:"required,min=1"`
	// MemoryLimitMB caps the sum of memory estimates of concurrently
	// running tasks.
	MemoryLimitMB int `json:"memory_limit_mb" yaml:"memory_limit_mb" mapstructure:"memory_limit_mb" validate:"required,min=1"`
	// TimeoutMultiplier scales every task's declared timeout.
	TimeoutMultiplier float64 `json:"timeout_multiplier" yaml:"timeout_multiplier" mapstructure:"timeout_multiplier" validate:"gt=0"`
	// ReservedEnvVars lists variable names no task may override.
	ReservedEnvVars []string `json:"reserved_env_vars,omitempty" yaml:"reserved_env_vars" mapstructure:"reserved_env_vars"`
	// IOIntensiveCeiling bounds how many I/O-intensive tasks may be
	// scheduled concurrently at one level.
	IOIntensiveCeiling int `json:"io_intensive_ceiling" yaml:"io_intensive_ceiling" mapstructure:"io_intensive_ceiling" validate:"min=1"`
	// PerTaskMemoryCapMB caps any single task's memory estimate.
	PerTaskMemoryCapMB int `json:"per_task_memory_cap_mb" yaml:"per_task_memory_cap_mb" mapstructure:"per_task_memory_cap_mb" validate:"min=1"`
}

// ApplyDefaults fills zero-valued optional fields.
func (b *Budget) ApplyDefaults() {
	if b.TimeoutMultiplier == 0 {
		b.TimeoutMultiplier = DefaultTimeoutMultiplier
	}
	if b.IOIntensiveCeiling == 0 {
		b.IOIntensiveCeiling = DefaultIOIntensiveCeiling
	}
	if b.PerTaskMemoryCapMB == 0 {
		b.PerTaskMemoryCapMB = DefaultPerTaskMemoryCapMB
	}
}

// DefaultBudget returns a budget with sensible development defaults.
func DefaultBudget() Budget {
	b := Budget{
		MaxParallel:   4,
		MemoryLimitMB: 4096,
	}
	b.ApplyDefaults()
	return b
}
