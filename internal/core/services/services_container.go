package services

import (
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// A nil locker or publisher leaves the in-process no-op default in place.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, locker portssvc.TellerLocker, events portssvc.EventPublisher) *portssvc.ServiceContainer {
	defaults := PayrollDefaults{Rates: cfg.SalaryRates, Period: cfg.PayrollPeriod}
	opts := []BaseOption{
		WithTellerLocker(locker),
		WithEventPublisher(events),
		WithLocation(cfg.Location),
	}

	return &portssvc.ServiceContainer{
		Capital:       NewCapitalService(repos, defaults, opts...),
		Payroll:       NewPayrollService(repos, defaults, opts...),
		Withdrawal:    NewWithdrawalService(repos, opts...),
		Consolidation: NewConsolidationService(repos, opts...),
	}
}
