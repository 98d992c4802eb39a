package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/teller_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// --- Mock TransactionManager ---
type MockTxManager struct {
	mock.Mock
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// expectTx sets up one successful transaction. Rollback after commit is allowed.
func (m *MockTxManager) expectTx() {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	m.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// expectFailedTx sets up a transaction that must not commit.
func (m *MockTxManager) expectFailedTx() {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserPayrollLinks(ctx context.Context, tx pgx.Tx, user domain.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

// --- Mock CapitalRepository ---
type MockCapitalRepository struct {
	mock.Mock
}

var _ portsrepo.CapitalRepositoryFacade = (*MockCapitalRepository)(nil)

func (m *MockCapitalRepository) FindActiveCapitalByTeller(ctx context.Context, tellerID string) (*domain.CapitalRecord, error) {
	args := m.Called(ctx, tellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalRecord), args.Error(1)
}

func (m *MockCapitalRepository) FindActiveCapitalForUpdate(ctx context.Context, tx pgx.Tx, tellerID string) (*domain.CapitalRecord, error) {
	args := m.Called(ctx, tx, tellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalRecord), args.Error(1)
}

func (m *MockCapitalRepository) ListActiveCapitalOpenedBefore(ctx context.Context, cutoff time.Time) ([]domain.CapitalRecord, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CapitalRecord), args.Error(1)
}

func (m *MockCapitalRepository) SaveCapital(ctx context.Context, tx pgx.Tx, record domain.CapitalRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockCapitalRepository) UpdateCapital(ctx context.Context, tx pgx.Tx, record domain.CapitalRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockCapitalRepository) ListCapitalTransactions(ctx context.Context, tellerID, capitalID string, limit int, nextToken *string) ([]domain.CapitalTransaction, *string, error) {
	args := m.Called(ctx, tellerID, capitalID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.CapitalTransaction), returnedNextToken, args.Error(2)
}

func (m *MockCapitalRepository) SaveCapitalTransaction(ctx context.Context, tx pgx.Tx, txn domain.CapitalTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

// --- Mock ReportReader ---
type MockReportRepository struct {
	mock.Mock
}

var _ portsrepo.ReportReader = (*MockReportRepository)(nil)

func (m *MockReportRepository) FindReportsByTellerAndDate(ctx context.Context, tellerID string, day time.Time) ([]domain.TellerReport, error) {
	args := m.Called(ctx, tellerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TellerReport), args.Error(1)
}

func (m *MockReportRepository) ListReportingTellerIDs(ctx context.Context, day time.Time) ([]string, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock PayrollRepository ---
type MockPayrollRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRepositoryFacade = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) FindPayrollByID(ctx context.Context, payrollID string) (*domain.PayrollRecord, error) {
	args := m.Called(ctx, payrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) FindPayrollForUpdate(ctx context.Context, tx pgx.Tx, payrollID string) (*domain.PayrollRecord, error) {
	args := m.Called(ctx, tx, payrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) FindPayrollsForUpdate(ctx context.Context, tx pgx.Tx, payrollIDs []string) ([]domain.PayrollRecord, error) {
	args := m.Called(ctx, tx, payrollIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRecord), args.Error(1)
}

func (m *MockPayrollRepository) ListPayrolls(ctx context.Context, filter portsrepo.PayrollFilter, limit int, nextToken *string) ([]domain.PayrollRecord, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.PayrollRecord), returnedNextToken, args.Error(2)
}

func (m *MockPayrollRepository) ListPayrollUserIDsByDate(ctx context.Context, day time.Time) ([]string, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPayrollRepository) EnsurePayroll(ctx context.Context, tx pgx.Tx, template domain.PayrollRecord) (*domain.PayrollRecord, bool, error) {
	args := m.Called(ctx, tx, template)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Bool(1), args.Error(2)
}

func (m *MockPayrollRepository) SavePayroll(ctx context.Context, tx pgx.Tx, record domain.PayrollRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdatePayroll(ctx context.Context, tx pgx.Tx, record domain.PayrollRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockPayrollRepository) SaveAdjustment(ctx context.Context, tx pgx.Tx, adjustment domain.PayrollAdjustment) error {
	args := m.Called(ctx, tx, adjustment)
	return args.Error(0)
}

// --- Mock WithdrawalRepository ---
type MockWithdrawalRepository struct {
	mock.Mock
}

var _ portsrepo.WithdrawalRepositoryFacade = (*MockWithdrawalRepository)(nil)

func (m *MockWithdrawalRepository) FindWithdrawalByID(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, withdrawalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) FindWithdrawalForUpdate(ctx context.Context, tx pgx.Tx, withdrawalID string) (*domain.Withdrawal, error) {
	args := m.Called(ctx, tx, withdrawalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) FindPendingPayrollIDs(ctx context.Context, tx pgx.Tx, payrollIDs []string) ([]string, error) {
	args := m.Called(ctx, tx, payrollIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawals(ctx context.Context, userID string, status *domain.WithdrawalStatus) ([]domain.Withdrawal, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) SaveWithdrawal(ctx context.Context, tx pgx.Tx, withdrawal domain.Withdrawal) error {
	args := m.Called(ctx, tx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, tx pgx.Tx, withdrawal domain.Withdrawal) error {
	args := m.Called(ctx, tx, withdrawal)
	return args.Error(0)
}

// recordingPublisher keeps every emitted event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

var _ portssvc.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// repoMocks bundles one mock per repository.
type repoMocks struct {
	tx         *MockTxManager
	users      *MockUserRepository
	capital    *MockCapitalRepository
	reports    *MockReportRepository
	payrolls   *MockPayrollRepository
	withdrawal *MockWithdrawalRepository
}

func newRepoMocks() repoMocks {
	return repoMocks{
		tx:         new(MockTxManager),
		users:      new(MockUserRepository),
		capital:    new(MockCapitalRepository),
		reports:    new(MockReportRepository),
		payrolls:   new(MockPayrollRepository),
		withdrawal: new(MockWithdrawalRepository),
	}
}

func (r repoMocks) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      r.tx,
		UserRepo:       r.users,
		CapitalRepo:    r.capital,
		ReportRepo:     r.reports,
		PayrollRepo:    r.payrolls,
		WithdrawalRepo: r.withdrawal,
	}
}

func (r repoMocks) assertExpectations(t mock.TestingT) {
	r.tx.AssertExpectations(t)
	r.users.AssertExpectations(t)
	r.capital.AssertExpectations(t)
	r.reports.AssertExpectations(t)
	r.payrolls.AssertExpectations(t)
	r.withdrawal.AssertExpectations(t)
}

var fixedNow = time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}
