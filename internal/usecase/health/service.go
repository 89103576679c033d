package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the database and the two
// model providers feeding the match pipeline.
type Service struct {
	db        DBPinger
	embedding ProviderChecker
	scoring   ProviderChecker
}

// New creates a Service. embedding and scoring can be nil.
func New(db DBPinger, embedding, scoring ProviderChecker) *Service {
	return &Service{db: db, embedding: embedding, scoring: scoring}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.embedding != nil {
		checks["embedding"] = runProviderCheck(ctx, s.embedding)
	}
	if s.scoring != nil {
		checks["scoring"] = runProviderCheck(ctx, s.scoring)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

// Ready reports whether the service can accept traffic. Only the
// database gates readiness; provider hiccups degrade, they don't evict
// the instance from rotation.
func (s *Service) Ready(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func runProviderCheck(ctx context.Context, c ProviderChecker) CheckResult {
	if err := c.HealthCheck(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
