package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"motiond/internal/manager"
	"motiond/pkg/types"
)

type mockService struct {
	resp    *types.MotionResponse
	err     error
	status  types.StatusResponse
	ready   bool
	calls   int
	lastReq types.MotionRequest
}

func (m *mockService) GenerateMotion(ctx context.Context, req types.MotionRequest) (*types.MotionResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return &types.MotionResponse{
		Motion: types.Motion{NumFrames: 90, FPS: 30},
		Meta:   types.MotionMeta{Text: req.Text, Duration: *req.Duration, Seed: *req.Seed},
	}, nil
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }

func postMotion(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/motion", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthDoesNotTouchService(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("body=%+v", body)
	}
	if svc.calls != 0 {
		t.Fatalf("health must not touch the runtime")
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	r = NewMux(&mockService{ready: false})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	r := NewMux(&mockService{status: types.StatusResponse{State: "ready", RuntimeLoaded: true}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || !body.RuntimeLoaded {
		t.Fatalf("body=%+v", body)
	}
}

func TestMotionRequiresJSONContentType(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/v1/motion", strings.NewReader(`{"text":"walk"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMotionRejectsInvalidJSON(t *testing.T) {
	w := postMotion(t, NewMux(&mockService{}), `{"text":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMotionValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty text", `{"text":""}`, http.StatusUnprocessableEntity},
		{"duration too short", `{"text":"walk","duration":0.4}`, http.StatusUnprocessableEntity},
		{"duration at min", `{"text":"walk","duration":0.5}`, http.StatusOK},
		{"duration at max", `{"text":"walk","duration":30.0}`, http.StatusOK},
		{"cfg at max", `{"text":"walk","cfg_scale":20.0}`, http.StatusOK},
		{"cfg over max", `{"text":"walk","cfg_scale":20.1}`, http.StatusUnprocessableEntity},
		{"negative seed", `{"text":"walk","seed":-1}`, http.StatusUnprocessableEntity},
		{"text at max", `{"text":"` + strings.Repeat("a", 2000) + `"}`, http.StatusOK},
		{"text too long", `{"text":"` + strings.Repeat("a", 2001) + `"}`, http.StatusUnprocessableEntity},
		{"multibyte text under max", `{"text":"` + strings.Repeat("é", 1500) + `"}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}
			w := postMotion(t, NewMux(svc), tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
			if tc.want == http.StatusUnprocessableEntity {
				if svc.calls != 0 {
					t.Fatalf("invalid request reached the service")
				}
				var body types.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("json: %v", err)
				}
				if len(body.Fields) == 0 {
					t.Fatalf("expected field-level detail: %+v", body)
				}
			}
		})
	}
}

func TestMotionAppliesDefaults(t *testing.T) {
	svc := &mockService{}
	w := postMotion(t, NewMux(svc), `{"text":"walk"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastReq.Duration == nil || *svc.lastReq.Duration != types.DefaultDuration {
		t.Fatalf("defaults not applied: %+v", svc.lastReq)
	}
	if *svc.lastReq.Seed != types.DefaultSeed || *svc.lastReq.CfgScale != types.DefaultCfgScale {
		t.Fatalf("defaults not applied: %+v", svc.lastReq)
	}
}

func TestMotionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"config missing", manager.ErrConfigMissing("/m/config.yml"), http.StatusServiceUnavailable, "Model not available"},
		{"construction failure", manager.ErrConstruction(errors.New("bad checkpoint")), http.StatusServiceUnavailable, "Service unavailable"},
		{"generation failure", manager.ErrGeneration(errors.New("oom")), http.StatusServiceUnavailable, "generation failed"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postMotion(t, NewMux(&mockService{err: tc.err}), `{"text":"walk"}`)
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d want %d", w.Code, tc.wantStatus)
			}
			var body types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if !strings.Contains(body.Error, tc.wantDetail) {
				t.Fatalf("detail %q does not contain %q", body.Error, tc.wantDetail)
			}
		})
	}
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func TestMotionHTTPErrorPassthrough(t *testing.T) {
	w := postMotion(t, NewMux(&mockService{err: mockHTTPError{msg: "slow down", code: 429}}), `{"text":"walk"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMotionSuccessBody(t *testing.T) {
	w := postMotion(t, NewMux(&mockService{}), `{"text":"walk","seed":7,"duration":2.0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.MotionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Motion.NumFrames != 90 || body.Motion.FPS != 30 {
		t.Fatalf("motion=%+v", body.Motion)
	}
	if body.Meta.Text != "walk" || body.Meta.Seed != 7 || body.Meta.Duration != 2.0 {
		t.Fatalf("meta=%+v", body.Meta)
	}
}
