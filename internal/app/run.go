package app

import (
	"context"
	"fmt"

	"github.com/vk/taskgridgo/internal/completion"
	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/document"
	"github.com/vk/taskgridgo/internal/executor"
	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/validate"
)

// ErrValidationFailed reports that error-severity issues gate the run.
var ErrValidationFailed = fmt.Errorf("description has validation errors")

// Run executes the main application flow: load, schema-validate, complete,
// validate, and — when configured — execute the description.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	raw, err := document.Load(ctx, a.config.DescriptionPath)
	if err != nil {
		return err
	}

	issues := document.ValidateSchema(raw)
	if model.HasErrors(issues) {
		// Nothing deeper is structurally safe to check.
		a.reportIssues(issues)
		return ErrValidationFailed
	}

	desc, err := document.Decode(raw)
	if err != nil {
		return fmt.Errorf("failed to decode description: %w", err)
	}
	a.logger.Debug("Description decoded.", "steps", len(desc.Graph), "tasks", len(desc.Tasks))

	if a.registry != nil {
		issues = append(issues, completion.Complete(ctx, desc, a.registry, a.config.Policy)...)
	}
	issues = append(issues, validate.Check(desc)...)
	a.reportIssues(issues)
	if model.HasErrors(issues) {
		return ErrValidationFailed
	}
	a.logger.Info("Description is valid.", "steps", len(desc.Graph))

	if !a.config.Execute {
		return nil
	}

	a.logger.Info("🚀 Starting execution...")
	exec := executor.New(a.dispatcher)
	if _, err := exec.Run(ctx, desc, a.config.Parameters); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")
	return nil
}

// reportIssues writes every issue to the application's output writer.
func (a *App) reportIssues(issues []model.Issue) {
	for _, issue := range issues {
		fmt.Fprintln(a.outW, issue.String())
	}
}
