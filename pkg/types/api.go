package types

import (
	"strings"
	"unicode/utf8"
)

// Defaults applied to optional MotionRequest fields when omitted.
const (
	DefaultDuration = 3.0
	DefaultSeed     = int64(42)
	DefaultCfgScale = 5.0
)

// Bounds enforced at the request boundary. MaxTextLen counts characters,
// not bytes. Whitespace-only text is rejected, a stricter reading of the
// non-empty requirement than a plain length check.
const (
	MaxTextLen  = 2000
	MinDuration = 0.5
	MaxDuration = 30.0
	MinCfgScale = 1.0
	MaxCfgScale = 20.0
)

// MotionRequest is the payload for POST /v1/motion.
// Optional fields are pointers so that an omitted field can be told apart
// from an explicit zero; defaults are filled by ApplyDefaults.
type MotionRequest struct {
	// Required prompt describing the motion to generate.
	// example: a person walks forward and waves
	Text string `json:"text" example:"a person walks forward and waves"`
	// Motion length in seconds.
	// example: 3.0
	Duration *float64 `json:"duration,omitempty" example:"3.0"`
	// Random seed; fixes stochastic sampling for reproducible output.
	// example: 42
	Seed *int64 `json:"seed,omitempty" example:"42"`
	// Classifier-free guidance scale.
	// example: 5.0
	CfgScale *float64 `json:"cfg_scale,omitempty" example:"5.0"`
}

// ApplyDefaults fills any omitted optional field with its default value.
func (r *MotionRequest) ApplyDefaults() {
	if r.Duration == nil {
		d := DefaultDuration
		r.Duration = &d
	}
	if r.Seed == nil {
		s := DefaultSeed
		r.Seed = &s
	}
	if r.CfgScale == nil {
		c := DefaultCfgScale
		r.CfgScale = &c
	}
}

// FieldError describes a single invalid request field.
type FieldError struct {
	// Name of the offending field.
	// example: duration
	Field string `json:"field" example:"duration"`
	// Human-readable reason.
	// example: must be between 0.5 and 30.0
	Message string `json:"message" example:"must be between 0.5 and 30.0"`
}

// Validate checks bounds on a defaulted request. All bounds are inclusive.
// An empty slice means the request is acceptable.
func (r *MotionRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Text) == "" {
		errs = append(errs, FieldError{Field: "text", Message: "is required"})
	} else if utf8.RuneCountInString(r.Text) > MaxTextLen {
		errs = append(errs, FieldError{Field: "text", Message: "must be at most 2000 characters"})
	}
	if r.Duration != nil && (*r.Duration < MinDuration || *r.Duration > MaxDuration) {
		errs = append(errs, FieldError{Field: "duration", Message: "must be between 0.5 and 30.0"})
	}
	if r.Seed != nil && *r.Seed < 0 {
		errs = append(errs, FieldError{Field: "seed", Message: "must be non-negative"})
	}
	if r.CfgScale != nil && (*r.CfgScale < MinCfgScale || *r.CfgScale > MaxCfgScale) {
		errs = append(errs, FieldError{Field: "cfg_scale", Message: "must be between 1.0 and 20.0"})
	}
	return errs
}

// Motion carries the serialized per-frame arrays of one generation.
// The nested array fields are plain numbers, free of runtime tensor types.
type Motion struct {
	// Per-frame 3D keypoints, shape (num_frames, joints, 3).
	Keypoints3D any `json:"keypoints3d"`
	// Per-frame joint rotations in 6D representation.
	Rot6D any `json:"rot6d"`
	// Per-frame root translation, shape (num_frames, 3).
	Transl any `json:"transl"`
	// Per-frame root rotation matrices, shape (num_frames, 3, 3).
	RootRotationsMat any `json:"root_rotations_mat"`
	// Number of frames in the sequence.
	// example: 90
	NumFrames int `json:"num_frames" example:"90"`
	// Fixed output frame rate.
	// example: 30
	FPS int `json:"fps" example:"30"`
}

// MotionMeta echoes back the request parameters that produced a result.
type MotionMeta struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Seed     int64   `json:"seed"`
}

// MotionResponse is the success body of POST /v1/motion.
type MotionResponse struct {
	Motion Motion     `json:"motion"`
	Meta   MotionMeta `json:"meta"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: Generation failed: out of memory
	Error string `json:"error" example:"Generation failed: out of memory"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
	// Field-level details, present only for validation failures.
	Fields []FieldError `json:"fields,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall service state (e.g., cold, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Whether the runtime handle has been constructed.
	// example: true
	RuntimeLoaded bool `json:"runtime_loaded" example:"true"`
	// Whether checkpoint weights were actually loaded (false in degraded mode).
	// example: true
	WeightsLoaded bool `json:"weights_loaded" example:"true"`
	// Offload profile requested by configuration.
	// example: 3
	OffloadProfile int `json:"offload_profile" example:"3"`
	// Outcome of the one-time offload application (applied, skipped, failed).
	// example: applied
	OffloadOutcome string `json:"offload_outcome,omitempty" example:"applied"`
	// Total generations served since start.
	// example: 12
	GenerationsTotal uint64 `json:"generations_total" example:"12"`
	// Last construction or generation error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
