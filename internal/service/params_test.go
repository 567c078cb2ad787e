package service

import (
	"github.com/nexusai/billing/internal/domain/proration"
	"github.com/nexusai/billing/internal/sentry"
	"github.com/nexusai/billing/internal/testutil"
)

// newTestServiceParams wires services against the suite's in-memory stores,
// scripted gateway and fake clock
func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetStoreClient(),
		stores.PlanRepo,
		stores.AccountRepo,
		stores.TransactionRepo,
		s.GetGateway(),
		proration.NewCalculator(),
		s.GetClock(),
		NewAccountLocks(),
		s.GetPublisher(),
		s.GetMetrics(),
		sentry.NewSentryService(s.GetConfig(), s.GetLogger()),
	)
}
