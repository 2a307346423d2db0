// Package core provides a small, stable facade over dylink's internal engine
// for external integrations. It deliberately re-exports a narrow API surface
// so build pipelines and third-party tools can depend on a stable import
// path without exposing internal implementation packages.
//
// Example:
//
//	arts, err := core.LoadArtifacts("dist/artifacts.json")
//	if err != nil { /* handle */ }
//	cfg := core.Config{Targets: []string{"x86_64-apple-darwin"}, DistDir: "dist"}
//	reports, err := core.Check(cfg, arts)
//	if err != nil { /* handle */ }
//	_ = core.MarshalLinkages(os.Stdout, reports)
package core
