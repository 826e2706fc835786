package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/harrykososuta/avf-simulator/internal/domain"
	"github.com/harrykososuta/avf-simulator/internal/repository/postgres"
	"github.com/harrykososuta/avf-simulator/internal/service"
)

func newTestApp() *fiber.App {
	bloodSvc := service.NewHemorheologyService()
	geometrySvc := service.NewGeometryService()
	flowSvc := service.NewFlowService()
	hemoSvc := service.NewHemodynamicsService(bloodSvc, geometrySvc, flowSvc)
	predictionSvc := service.NewPredictionService()

	app := fiber.New()
	handler := NewHandler(bloodSvc, geometrySvc, flowSvc, hemoSvc, predictionSvc, postgres.NewMockRepository(), nil)
	SetupRoutes(app, handler)
	return app
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	app := newTestApp()
	body, _ := json.Marshal(domain.NewDefaultParameters())

	req := httptest.NewRequest("POST", "/api/v1/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 30000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Success bool                    `json:"success"`
		Data    domain.SimulationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected success response")
	}
	if len(payload.Data.Result.WallWSS) == 0 {
		t.Fatal("expected wall WSS samples in simulation result")
	}
	if payload.Data.Prediction.Probability <= 0 {
		t.Fatalf("expected positive probability, got %.4f", payload.Data.Prediction.Probability)
	}
}

func TestSimulateRejectsInvalidParameters(t *testing.T) {
	app := newTestApp()
	params := domain.NewDefaultParameters()
	params.VeinDiameter = -2
	body, _ := json.Marshal(params)

	req := httptest.NewRequest("POST", "/api/v1/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGeometryEndpointRejectsBadAngle(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/geometry?angle=95", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWaveformEndpoint(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/waveform?steps=16", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Success bool      `json:"success"`
		Data    []float64 `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 16 {
		t.Fatalf("expected 16 waveform steps, got %d", len(payload.Data))
	}
}
