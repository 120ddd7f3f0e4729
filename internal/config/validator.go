package config

import (
	"errors"
	"fmt"
	"runtime"

	scoperr "github.com/standardbeagle/scopefs/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart
// defaults. Returns an error if validation fails.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateSandbox(&cfg.Sandbox); err != nil {
		return scoperr.NewConfigError("sandbox", err)
	}

	if err := v.validateSearch(&cfg.Search); err != nil {
		return scoperr.NewConfigError("search", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateSandbox(sandbox *Sandbox) error {
	if sandbox.Root == "" {
		return errors.New("sandbox root cannot be empty")
	}

	if sandbox.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", sandbox.MaxFileSize)
	}

	if sandbox.MaxFileSize > MaxAllowedFileSize {
		return fmt.Errorf("max_file_size should not exceed 100MB, got %d", sandbox.MaxFileSize)
	}

	return nil
}

func (v *Validator) validateSearch(search *Search) error {
	if search.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", search.MaxResults)
	}

	if search.MaxResults > MaxAllowedResults {
		return fmt.Errorf("max_results should not exceed %d, got %d", MaxAllowedResults, search.MaxResults)
	}

	if search.MaxDepth < 0 {
		return fmt.Errorf("max_depth cannot be negative, got %d", search.MaxDepth)
	}

	if search.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative, got %d", search.Concurrency)
	}

	return nil
}

// setSmartDefaults applies defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Search.Concurrency == 0 {
		cfg.Search.Concurrency = max(1, runtime.NumCPU()-1)
	}
}
