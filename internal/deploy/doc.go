// Package deploy drives each configured function through artifact
// resolution, descriptor building, submission and pod verification, and
// aggregates the per-function outcomes into a single report.
package deploy
