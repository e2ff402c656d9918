package administration

// Metrics contadores del registro de administraciones. Lo implementa infrastructure/metrics.
type Metrics interface {
	AdministrationRecorded(route string)
	AdministrationRejected(reason string)
}

type nopMetrics struct{}

func (nopMetrics) AdministrationRecorded(string) {}
func (nopMetrics) AdministrationRejected(string) {}
