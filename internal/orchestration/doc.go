// Package orchestration runs a demo workload through a progress source and,
// alongside it, the optional metrics server. It decouples the run from
// presentation through the ProgressReporter and ResultPresenter interfaces.
package orchestration
