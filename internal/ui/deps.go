// Package ui assembles the GTK4 shell: window, widgets, surfaces and the
// event channel wiring that drives them.
package ui

import (
	"context"

	"github.com/benchview/benchview/internal/application/usecase"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/infrastructure/config"
)

// Dependencies holds everything the shell needs that outlives the GTK
// application: configuration, persistence use cases and the restored
// session. Created once in main and handed to New.
type Dependencies struct {
	// Ctx carries the application logger and cancels on shutdown.
	Ctx context.Context

	Config        *config.Config
	ConfigManager *config.Manager

	// RestoredSession is the last persisted layout, nil when none exists
	// or session restore is disabled.
	RestoredSession *entity.LayoutSession

	SnapshotUC  *usecase.SnapshotLayoutUseCase
	RecordNavUC *usecase.RecordNavigationUseCase
}

// Validate checks that the required dependencies are set.
func (d *Dependencies) Validate() error {
	if d.Ctx == nil {
		return ErrMissingDependency("Ctx")
	}
	if d.Config == nil {
		return ErrMissingDependency("Config")
	}
	if d.SnapshotUC == nil {
		return ErrMissingDependency("SnapshotUC")
	}
	if d.RecordNavUC == nil {
		return ErrMissingDependency("RecordNavUC")
	}
	return nil
}

// DependencyError indicates a missing required dependency.
type DependencyError struct {
	Name string
}

func (e DependencyError) Error() string {
	return "missing required dependency: " + e.Name
}

// ErrMissingDependency creates a new DependencyError.
func ErrMissingDependency(name string) error {
	return DependencyError{Name: name}
}
