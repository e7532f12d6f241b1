package alerting

// Probable causes for a low-luminosity reading. When maintenance was
// performed recently the panel itself is fine, so the drop is blamed on
// the environment; otherwise the hardware is overdue for upkeep.
const (
	CauseShadingOrDust      = "shading or dust accumulation"
	CauseMaintenanceProblem = "maintenance problem"
)

// ResolveCause maps the maintenance flag to a human-readable probable
// cause. Pure and total.
func ResolveCause(maintained bool) string {
	if maintained {
		return CauseShadingOrDust
	}
	return CauseMaintenanceProblem
}
