package output

import (
	"github.com/goccy/go-json"

	"github.com/retirewise/planner/internal/domain"
)

// JSONFormatter serializes the projection as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.CalculationResults) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
