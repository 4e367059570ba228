package ports

import "time"

// Metrics define el puerto de salida para instrumentación.
// La aplicación solo conoce este contrato; el adaptador Prometheus vive en infraestructura.
type Metrics interface {
	// ObserveResolution registra una resolución de lista de materiales (outcome: ok, cycle, no_items, error).
	ObserveResolution(outcome string, elapsed time.Duration)
	// ObserveAvailability registra una verificación de inventario y sus faltantes.
	ObserveAvailability(available bool, shortages int)
	// ObservePosting registra un intento de asiento (outcome: appended, rejected, removed).
	ObservePosting(postingType, currency, outcome string)
	// ObserveOrderDecision registra la decisión sobre una línea de pedido.
	ObserveOrderDecision(accepted bool)
	// ObserveBalanceCheck registra una verificación de saldo.
	ObserveBalanceCheck(consistent bool)
}

// NopMetrics implementación vacía (tests, CLI).
type NopMetrics struct{}

func (NopMetrics) ObserveResolution(string, time.Duration) {}
func (NopMetrics) ObserveAvailability(bool, int)           {}
func (NopMetrics) ObservePosting(string, string, string)   {}
func (NopMetrics) ObserveOrderDecision(bool)               {}
func (NopMetrics) ObserveBalanceCheck(bool)                {}
