package monitor

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/rtmonitor/pkg/efa"
)

// DepartureFilter keeps the departures a boolean expression holds for, e.g.
// `Line == "U14" && Monitored` or `VehicleType in ["1", "4"]`.
// Fields are those of efa.Departure.
type DepartureFilter struct {
	program *vm.Program
}

func NewDepartureFilter(expression string) (*DepartureFilter, error) {
	program, err := expr.Compile(expression, expr.Env(efa.Departure{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	return &DepartureFilter{program: program}, nil
}

func (f *DepartureFilter) Apply(departures []efa.Departure) ([]efa.Departure, error) {
	filtered := []efa.Departure{}

	for _, departure := range departures {
		keep, err := expr.Run(f.program, departure)
		if err != nil {
			return nil, err
		}

		if keep.(bool) {
			filtered = append(filtered, departure)
		}
	}

	return filtered, nil
}
