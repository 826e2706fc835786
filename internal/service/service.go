package service

import (
	"github.com/harrykososuta/avf-simulator/internal/domain"
)

// SimulationRepository is re-exported from domain for convenience
type SimulationRepository = domain.SimulationRepository
