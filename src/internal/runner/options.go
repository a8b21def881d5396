package runner

import "path/filepath"

type Options struct {
	// Run mode
	RunMode string // "local" or "github"
	Debug   bool   // Debug mode

	// Common options
	ManifestPath   string
	Endpoint       string // validation service endpoint override (tests, sovereign clouds)
	TimeoutSeconds int    // 0 means no client-side timeout

	PoliciesPath                  string // report policy gate dir; empty disables the gate
	TemplatesPath                 string
	OutputDir                     string
	EnableExportReport            bool
	EnableExportPerformanceReport bool

	// GitHub mode options
	GhRepo     string
	GhPrNumber int
}

// GateEnabled returns true when a report policy gate directory was given.
func (o *Options) GateEnabled() bool {
	return o.PoliciesPath != ""
}

// ManifestName returns the manifest file name without its directory.
func (o *Options) ManifestName() string {
	return filepath.Base(o.ManifestPath)
}
