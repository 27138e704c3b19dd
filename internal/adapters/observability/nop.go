package observability

import "github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"

type nop struct{}

// Nop returns an Observability that records nothing.
func Nop() ports.Observability { return nop{} }

func (nop) LogInfo(string, ...ports.Field)         {}
func (nop) LogError(string, error, ...ports.Field) {}
func (nop) IncCounter(string, float64)             {}
func (nop) ObserveLatency(string, float64)         {}
func (nop) SetGauge(string, float64)               {}
