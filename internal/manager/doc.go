// Package manager owns the runtime lifecycle and request orchestration for
// the motion service. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, singleton acquisition.
//   - config.go: ManagerConfig and defaults; NewWithConfig applies defaults.
//   - errors.go: error types and helpers (IsConfigMissing, IsGenerationFailure).
//   - pipeline.go: the validate/generate/serialize request pipeline.
//   - serialize.go: request-to-params mapping and output serialization.
//   - scratch.go: per-request scratch workspace handling.
//   - metrics.go: prometheus domain metrics.
//   - status_report.go: Status reporting for /status.
//
// The runtime handle is constructed lazily and exactly once per process;
// construction failures are not cached, so a later call retries from
// scratch. The offload policy is applied exactly once, immediately after a
// successful construction. Generation calls are serialized against the
// single handle because accelerator state is single-flight.
//
// External packages should use public methods only (New/NewWithConfig,
// Handle, GenerateMotion, Preload, Status, Ready).
package manager
