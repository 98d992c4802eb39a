package pgsql

import (
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      &BaseRepository{Pool: dbPool},
		UserRepo:       newPgxUserRepository(dbPool),
		CapitalRepo:    newPgxCapitalRepository(dbPool),
		ReportRepo:     newPgxReportRepository(dbPool),
		PayrollRepo:    newPgxPayrollRepository(dbPool),
		WithdrawalRepo: newPgxWithdrawalRepository(dbPool),
	}
}
