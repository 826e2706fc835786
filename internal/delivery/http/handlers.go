package http

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/harrykososuta/avf-simulator/internal/domain"
	"github.com/harrykososuta/avf-simulator/internal/service"
)

// ResultPublisher pushes completed run summaries to downstream consumers.
type ResultPublisher interface {
	Publish(rec domain.SimulationRecord)
}

// Handler contains all HTTP handlers
type Handler struct {
	bloodSvc      *service.HemorheologyService
	geometrySvc   *service.GeometryService
	flowSvc       *service.FlowService
	hemoSvc       *service.HemodynamicsService
	predictionSvc *service.PredictionService
	repo          service.SimulationRepository
	publisher     ResultPublisher
}

// NewHandler creates a new handler
func NewHandler(
	bloodSvc *service.HemorheologyService,
	geometrySvc *service.GeometryService,
	flowSvc *service.FlowService,
	hemoSvc *service.HemodynamicsService,
	predictionSvc *service.PredictionService,
	repo service.SimulationRepository,
	publisher ResultPublisher,
) *Handler {
	return &Handler{
		bloodSvc:      bloodSvc,
		geometrySvc:   geometrySvc,
		flowSvc:       flowSvc,
		hemoSvc:       hemoSvc,
		predictionSvc: predictionSvc,
		repo:          repo,
		publisher:     publisher,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "avf-simulator",
		"version": "1.0.0",
	})
}

// GetDefaults returns the reference clinical parameter set
func (h *Handler) GetDefaults(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    domain.NewDefaultParameters(),
	})
}

// GetBloodProperties returns the viscosity solve for one branch
func (h *Handler) GetBloodProperties(c *fiber.Ctx) error {
	flow := c.QueryFloat("flow", 600)
	diameter := c.QueryFloat("diameter", 4.0)
	hematocrit := c.QueryFloat("hematocrit", 0.40)
	if flow <= 0 || diameter <= 0 || hematocrit <= 0 || hematocrit >= 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid blood property query")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.bloodSvc.ComputeBloodProperties(flow, diameter, hematocrit),
	})
}

// GetGeometry returns junction geometry for the given query parameters
func (h *Handler) GetGeometry(c *fiber.Ctx) error {
	artery := c.QueryFloat("artery", 4.0)
	vein := c.QueryFloat("vein", 4.0)
	angle := c.QueryFloat("angle", 45)

	geo, err := h.geometrySvc.GenerateGeometry(artery, vein, angle)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    geo,
	})
}

// GetWaveform returns the normalized pulsatile waveform
func (h *Handler) GetWaveform(c *fiber.Ctx) error {
	heartRate := c.QueryFloat("heart_rate", 75)
	systolicRatio := c.QueryFloat("systolic_ratio", 0.35)
	steps := c.QueryInt("steps", 32)
	if steps < 1 || steps > 1024 {
		steps = 32
	}

	wave := h.flowSvc.GenerateWaveform(heartRate, systolicRatio, steps)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    wave,
	})
}

// Simulate runs the full pipeline for a posted parameter set
func (h *Handler) Simulate(c *fiber.Ctx) error {
	var params domain.ClinicalParameters
	if err := c.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := params.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	geo, err := h.geometrySvc.GenerateGeometry(params.ArteryDiameter, params.VeinDiameter, params.AnastomosisAngle)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.hemoSvc.ComputeHemodynamics(params)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute hemodynamics")
	}

	prediction := h.predictionSvc.PredictMaturation(params, result.Metrics)
	timeline := h.predictionSvc.PredictTimeline(prediction, params)

	sim := domain.SimulationResult{
		Params:     params,
		Geometry:   geo,
		Result:     result,
		Prediction: prediction,
		Timeline:   timeline,
		Timestamp:  time.Now(),
	}

	rec := domain.SimulationRecord{
		Params:      params,
		MeanTAWSS:   result.Metrics.MeanTAWSS,
		MeanOSI:     result.Metrics.MeanOSI,
		VeinFlow:    result.FlowSplit.VeinFlowRate,
		Probability: prediction.Probability,
		Timestamp:   sim.Timestamp,
	}

	// Persist and publish asynchronously; the response never waits on
	// either.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if saveErr := h.repo.SaveSimulation(bgCtx, rec); saveErr != nil {
			log.Printf("Failed to save simulation record: %v", saveErr)
		}
	}()
	if h.publisher != nil {
		h.publisher.Publish(rec)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sim,
	})
}

// Predict runs hemodynamics for a posted parameter set and returns the
// maturation prediction with its timeline
func (h *Handler) Predict(c *fiber.Ctx) error {
	var params domain.ClinicalParameters
	if err := c.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := params.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.hemoSvc.ComputeHemodynamics(params)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute hemodynamics")
	}

	prediction := h.predictionSvc.PredictMaturation(params, result.Metrics)
	timeline := h.predictionSvc.PredictTimeline(prediction, params)

	return c.JSON(fiber.Map{
		"success":    true,
		"prediction": prediction,
		"timeline":   timeline,
		"metrics":    result.Metrics,
	})
}

// GetHistory returns stored simulation records within a time range
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	ctx := c.Context()

	hours := c.QueryInt("hours", 24)
	if hours < 1 || hours > 720 { // max 30 days
		hours = 24
	}

	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	data, err := h.repo.GetHistory(ctx, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch simulation history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}
