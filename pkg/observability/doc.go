/*
Package observability exposes generator runs as Prometheus metrics.

Metrics are fed through generator.Hooks, so any engine can be instrumented
without changing how it runs:

	m := observability.NewMetrics()
	prometheus.MustRegister(m)
	eng := generator.NewEngine(generator.WithHooks(m.Hooks()))
*/
package observability
