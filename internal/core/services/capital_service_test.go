package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/core/services"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CapitalServiceTestSuite struct {
	suite.Suite
	mocks     repoMocks
	publisher *recordingPublisher
	service   portssvc.CapitalSvcFacade

	supervisor *domain.User
	teller     *domain.User
}

func (suite *CapitalServiceTestSuite) SetupTest() {
	suite.mocks = newRepoMocks()
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewCapitalService(
		suite.mocks.provider(),
		services.DefaultPayrollDefaults(),
		services.WithClock(fixedClock),
		services.WithEventPublisher(suite.publisher),
	)
	suite.supervisor = &domain.User{UserID: "sup_1", Name: "Sam", Role: domain.RoleSupervisor}
	suite.teller = &domain.User{UserID: "teller_1", Name: "Tia", Role: domain.RoleTeller}
}

func (suite *CapitalServiceTestSuite) activeRecord(amount string) *domain.CapitalRecord {
	return &domain.CapitalRecord{
		CapitalID:       "cap_1",
		TellerID:        suite.teller.UserID,
		SupervisorID:    strPtr(suite.supervisor.UserID),
		Amount:          dec(amount),
		TotalAdditional: decimal.Zero,
		TotalRemitted:   decimal.Zero,
		Status:          domain.CapitalActive,
	}
}

func (suite *CapitalServiceTestSuite) expectDailyPayroll(userID string) {
	suite.mocks.payrolls.On("EnsurePayroll", mock.Anything, mock.Anything,
		mock.MatchedBy(func(p domain.PayrollRecord) bool { return p.UserID == userID })).
		Return(&domain.PayrollRecord{PayrollID: "pay_" + userID, UserID: userID}, true, nil).Once()
}

func (suite *CapitalServiceTestSuite) TestIssueCapital_Success() {
	ctx := context.Background()
	req := dto.IssueCapitalRequest{TellerID: "teller_1", SupervisorID: "sup_1", Amount: dec("5000"), Notes: "morning float"}

	suite.mocks.users.On("FindUserByID", mock.Anything, "sup_1").Return(suite.supervisor, nil).Once()
	suite.mocks.tx.expectTx()
	suite.mocks.users.On("FindUserByIDForUpdate", mock.Anything, mock.Anything, "teller_1").Return(suite.teller, nil).Once()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mocks.users.On("UpdateUserPayrollLinks", mock.Anything, mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.SupervisorID != nil && *u.SupervisorID == "sup_1" && u.BaseSalary == nil
	})).Return(nil).Once()
	suite.mocks.capital.On("SaveCapital", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.CapitalRecord) bool {
		return r.Amount.Equal(dec("5000")) && r.Status == domain.CapitalActive && r.TotalRemitted.IsZero()
	})).Return(nil).Once()
	suite.mocks.capital.On("SaveCapitalTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(t domain.CapitalTransaction) bool {
		return t.Type == domain.CapitalTxnStarting && t.BalanceBefore.IsZero() && t.BalanceAfter.Equal(dec("5000")) && t.Notes == "morning float"
	})).Return(nil).Once()
	suite.expectDailyPayroll("teller_1")
	suite.expectDailyPayroll("sup_1")

	resp, err := suite.service.IssueCapital(ctx, req, "admin_1")

	suite.Require().NoError(err)
	suite.True(resp.Capital.BalanceRemaining.Equal(dec("5000")))
	suite.Equal(domain.CapitalActive, resp.Capital.Status)
	suite.Equal(fixedNow, resp.Capital.CreatedAt)
	suite.Equal("admin_1", resp.Transaction.CreatedBy)
	suite.Contains(suite.publisher.types(), domain.EventTellerManagementUpdated)
	suite.Contains(suite.publisher.types(), domain.EventPayrollUpdated)
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestIssueCapital_SupervisorTellerEarnsTellerRate() {
	ctx := context.Background()
	st := &domain.User{UserID: "st_1", Role: domain.RoleSupervisorTeller, BaseSalary: decPtr("600"), SupervisorID: strPtr("sup_1")}
	req := dto.IssueCapitalRequest{TellerID: "st_1", SupervisorID: "sup_1", Amount: dec("1000")}

	suite.mocks.users.On("FindUserByID", mock.Anything, "sup_1").Return(suite.supervisor, nil).Once()
	suite.mocks.tx.expectTx()
	suite.mocks.users.On("FindUserByIDForUpdate", mock.Anything, mock.Anything, "st_1").Return(st, nil).Once()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "st_1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mocks.users.On("UpdateUserPayrollLinks", mock.Anything, mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.BaseSalary != nil && u.BaseSalary.Equal(dec("450"))
	})).Return(nil).Once()
	suite.mocks.capital.On("SaveCapital", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mocks.capital.On("SaveCapitalTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mocks.payrolls.On("EnsurePayroll", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.PayrollRecord) bool {
		return p.UserID == "st_1" && p.BaseSalary.Equal(dec("450")) && p.HandlesCash
	})).Return(&domain.PayrollRecord{PayrollID: "pay_st"}, true, nil).Once()
	suite.expectDailyPayroll("sup_1")

	_, err := suite.service.IssueCapital(ctx, req, "admin_1")

	suite.Require().NoError(err)
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestIssueCapital_Rejections() {
	ctx := context.Background()

	suite.Run("non-positive amount", func() {
		_, err := suite.service.IssueCapital(ctx, dto.IssueCapitalRequest{TellerID: "t", SupervisorID: "s", Amount: decimal.Zero}, "admin_1")
		suite.ErrorIs(err, apperrors.ErrValidation)
	})

	suite.Run("issuer role may not issue", func() {
		issuer := &domain.User{UserID: "teller_2", Role: domain.RoleTeller}
		suite.mocks.users.On("FindUserByID", mock.Anything, "teller_2").Return(issuer, nil).Once()
		_, err := suite.service.IssueCapital(ctx, dto.IssueCapitalRequest{TellerID: "teller_1", SupervisorID: "teller_2", Amount: dec("10")}, "admin_1")
		suite.ErrorIs(err, apperrors.ErrInvalidState)
		suite.mocks.tx.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	})
}

func (suite *CapitalServiceTestSuite) TestIssueCapital_RecipientDoesNotHandleCash() {
	ctx := context.Background()
	declarator := &domain.User{UserID: "dec_1", Role: domain.RoleDeclarator}

	suite.mocks.users.On("FindUserByID", mock.Anything, "sup_1").Return(suite.supervisor, nil).Once()
	suite.mocks.tx.expectFailedTx()
	suite.mocks.users.On("FindUserByIDForUpdate", mock.Anything, mock.Anything, "dec_1").Return(declarator, nil).Once()

	_, err := suite.service.IssueCapital(ctx, dto.IssueCapitalRequest{TellerID: "dec_1", SupervisorID: "sup_1", Amount: dec("10")}, "admin_1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mocks.capital.AssertNotCalled(suite.T(), "SaveCapital", mock.Anything, mock.Anything, mock.Anything)
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestIssueCapital_AlreadyActive() {
	ctx := context.Background()

	suite.mocks.users.On("FindUserByID", mock.Anything, "sup_1").Return(suite.supervisor, nil).Once()
	suite.mocks.tx.expectFailedTx()
	suite.mocks.users.On("FindUserByIDForUpdate", mock.Anything, mock.Anything, "teller_1").Return(suite.teller, nil).Once()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(suite.activeRecord("100"), nil).Once()

	_, err := suite.service.IssueCapital(ctx, dto.IssueCapitalRequest{TellerID: "teller_1", SupervisorID: "sup_1", Amount: dec("10")}, "admin_1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Contains(err.Error(), "cap_1")
	suite.mocks.capital.AssertNotCalled(suite.T(), "SaveCapital", mock.Anything, mock.Anything, mock.Anything)
	suite.mocks.assertExpectations(suite.T())
}

// Issue 5000, add 1000, remit 2500, remit 3500: the balance ends at zero.
func (suite *CapitalServiceTestSuite) TestMovements_ReconcileToZero() {
	ctx := context.Background()
	record := suite.activeRecord("5000")
	var ledger []domain.CapitalTransaction

	suite.mocks.tx.On("Begin", mock.Anything).Return(nil, nil).Times(3)
	suite.mocks.tx.On("Commit", mock.Anything, mock.Anything).Return(nil).Times(3)
	suite.mocks.tx.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(record, nil).Times(3)
	suite.mocks.capital.On("UpdateCapital", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)
	suite.mocks.capital.On("SaveCapitalTransaction", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { ledger = append(ledger, args.Get(2).(domain.CapitalTransaction)) }).
		Return(nil).Times(3)

	_, err := suite.service.AddAdditional(ctx, "teller_1", dto.CapitalMovementRequest{Amount: dec("1000")}, "sup_1")
	suite.Require().NoError(err)
	_, err = suite.service.Remit(ctx, "teller_1", dto.CapitalMovementRequest{Amount: dec("2500")}, "sup_1")
	suite.Require().NoError(err)
	resp, err := suite.service.Remit(ctx, "teller_1", dto.CapitalMovementRequest{Amount: dec("3500")}, "sup_1")
	suite.Require().NoError(err)

	suite.True(resp.Capital.BalanceRemaining.IsZero(), "got %s", resp.Capital.BalanceRemaining)
	suite.True(record.TotalAdditional.Equal(dec("1000")))
	suite.True(record.TotalRemitted.Equal(dec("6000")))
	suite.True(record.Amount.Equal(dec("5000")), "amount never changes")

	suite.Require().Len(ledger, 3)
	suite.True(ledger[0].BalanceAfter.Equal(dec("6000")))
	suite.True(ledger[1].BalanceBefore.Equal(dec("6000")))
	suite.True(ledger[1].BalanceAfter.Equal(dec("3500")))
	suite.True(ledger[2].BalanceAfter.IsZero())
	for _, txn := range ledger {
		suite.NotEmpty(txn.TransactionID)
		suite.Equal("cap_1", txn.CapitalID)
	}
	suite.Contains(suite.publisher.types(), domain.EventSupervisorReportUpdated)
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestRemit_NoActiveRecordChangesNothing() {
	ctx := context.Background()

	suite.mocks.tx.expectFailedTx()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.Remit(ctx, "teller_1", dto.CapitalMovementRequest{Amount: dec("100")}, "sup_1")

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "cannot remit: no active capital record for teller teller_1")
	suite.mocks.capital.AssertNotCalled(suite.T(), "UpdateCapital", mock.Anything, mock.Anything, mock.Anything)
	suite.mocks.capital.AssertNotCalled(suite.T(), "SaveCapitalTransaction", mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.types())
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestAdjustCapital_NegativeCountsAsRemitted() {
	ctx := context.Background()
	record := suite.activeRecord("1000")

	suite.mocks.tx.expectTx()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(record, nil).Once()
	suite.mocks.capital.On("UpdateCapital", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mocks.capital.On("SaveCapitalTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(t domain.CapitalTransaction) bool {
		return t.Type == domain.CapitalTxnAdjustment && t.Amount.Equal(dec("-200")) && t.BalanceAfter.Equal(dec("800"))
	})).Return(nil).Once()

	resp, err := suite.service.AdjustCapital(ctx, "teller_1", dto.AdjustCapitalRequest{Amount: dec("-200"), Notes: "miscount"}, "sup_1")

	suite.Require().NoError(err)
	suite.True(resp.Capital.TotalRemitted.Equal(dec("200")))
	suite.True(resp.Capital.BalanceRemaining.Equal(dec("800")))
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestAdjustCapital_RequiresNotes() {
	_, err := suite.service.AdjustCapital(context.Background(), "teller_1", dto.AdjustCapitalRequest{Amount: dec("5")}, "sup_1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CapitalServiceTestSuite) TestCloseCapital() {
	ctx := context.Background()
	record := suite.activeRecord("1000")

	suite.mocks.tx.expectTx()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(record, nil).Once()
	suite.mocks.capital.On("UpdateCapital", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.CapitalRecord) bool {
		return r.Status == domain.CapitalCompleted && r.ClosedAt != nil
	})).Return(nil).Once()
	suite.mocks.capital.On("SaveCapitalTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(t domain.CapitalTransaction) bool {
		return t.Type == domain.CapitalTxnClosing && t.Amount.IsZero() && t.BalanceBefore.Equal(t.BalanceAfter)
	})).Return(nil).Once()

	resp, err := suite.service.CloseCapital(ctx, "teller_1", dto.CloseCapitalRequest{Status: domain.CapitalCompleted}, "sup_1")

	suite.Require().NoError(err)
	suite.Equal(domain.CapitalCompleted, resp.Capital.Status)
	suite.Require().NotNil(resp.Capital.ClosedAt)
	suite.Equal(fixedNow, *resp.Capital.ClosedAt)
	suite.True(resp.Capital.BalanceRemaining.Equal(dec("1000")))
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestCloseStaleCapital_SkipsRecordsClosedMeanwhile() {
	ctx := context.Background()
	cutoff := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	stale := []domain.CapitalRecord{*suite.activeRecord("100"), {CapitalID: "cap_2", TellerID: "teller_2", Status: domain.CapitalActive}}

	suite.mocks.capital.On("ListActiveCapitalOpenedBefore", mock.Anything, cutoff).Return(stale, nil).Once()
	suite.mocks.tx.On("Begin", mock.Anything).Return(nil, nil).Twice()
	suite.mocks.tx.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mocks.tx.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_1").Return(suite.activeRecord("100"), nil).Once()
	suite.mocks.capital.On("FindActiveCapitalForUpdate", mock.Anything, mock.Anything, "teller_2").Return(nil, apperrors.ErrNotFound).Once()
	suite.mocks.capital.On("UpdateCapital", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mocks.capital.On("SaveCapitalTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	closed, err := suite.service.CloseStaleCapital(ctx, cutoff, "system")

	suite.NoError(err)
	suite.Equal(1, closed)
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestListCapitalTransactions_ClampsLimit() {
	ctx := context.Background()
	txns := []domain.CapitalTransaction{{TransactionID: "txn_1"}}
	suite.mocks.capital.On("ListCapitalTransactions", mock.Anything, "teller_1", "", 20, (*string)(nil)).Return(txns, "next", nil).Once()

	resp, err := suite.service.ListCapitalTransactions(ctx, "teller_1", dto.ListCapitalTransactionsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
	suite.mocks.assertExpectations(suite.T())
}

func (suite *CapitalServiceTestSuite) TestGetActiveCapital_NotFound() {
	suite.mocks.capital.On("FindActiveCapitalByTeller", mock.Anything, "teller_1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetActiveCapital(context.Background(), "teller_1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCapitalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CapitalServiceTestSuite))
}
