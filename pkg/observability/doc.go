/*
Package observability turns controller lifecycle events into prometheus metrics and a
last-known status snapshot.

Both consumers are driven by domain.LifecycleHooks, so the controller itself never imports
prometheus:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	tracker := observability.NewTracker()
	hooks := metrics.Hooks().Merge(tracker.Hooks())
*/
package observability
