package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"centsimple/internal/models"
	"centsimple/internal/testutil"
)

func TestOverallBalance(t *testing.T) {
	t.Run("empty_history_is_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		balance, err := svc.OverallBalance(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.IsZero() {
			t.Errorf("expected zero balance, got %s", balance)
		}
	})

	t.Run("income_minus_expense_plus_transfers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, decimal.NewFromInt(1000))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, decimal.NewFromInt(300))
		// Contribution to savings: stored negative.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, decimal.NewFromInt(-200))
		// Withdrawal back from savings: stored positive.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, decimal.NewFromInt(50))

		balance, err := svc.OverallBalance(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.Equal(decimal.NewFromInt(550)) {
			t.Errorf("expected balance 550, got %s", balance)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeIncome, decimal.NewFromInt(9999))

		balance, err := svc.OverallBalance(user.ID)
		testutil.AssertNoError(t, err)
		if !balance.IsZero() {
			t.Errorf("expected zero balance, got %s", balance)
		}
	})
}

func TestSavingGoalBalance(t *testing.T) {
	t.Run("initial_minus_transfers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestSavingGoal(t, db, user.ID, decimal.NewFromInt(500))

		// Contribution of 100, then withdrawal of 30.
		contribution := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, decimal.NewFromInt(-100))
		testutil.AssertNoError(t, db.Model(contribution).Update("saving_goal_id", goal.ID).Error)
		withdrawal := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, decimal.NewFromInt(30))
		testutil.AssertNoError(t, db.Model(withdrawal).Update("saving_goal_id", goal.ID).Error)

		got, balance, err := svc.SavingGoalBalance(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if got.ID != goal.ID {
			t.Errorf("expected goal %s, got %s", goal.ID, got.ID)
		}
		if !balance.Equal(decimal.NewFromInt(570)) {
			t.Errorf("expected balance 570, got %s", balance)
		}
	})

	t.Run("foreign_goal_reports_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestSavingGoal(t, db, owner.ID, decimal.NewFromInt(100))

		_, _, err := svc.SavingGoalBalance(other.ID, goal.ID)
		testutil.AssertAppError(t, err, "SAVING_GOAL_NOT_FOUND")
	})

	t.Run("unknown_goal_reports_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		_, _, err := svc.SavingGoalBalance(user.ID, "no-such-goal")
		testutil.AssertAppError(t, err, "SAVING_GOAL_NOT_FOUND")
	})
}

func TestTotalSavingsBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBalanceService(db)
	user := testutil.CreateTestUser(t, db)

	goal1 := testutil.CreateTestSavingGoal(t, db, user.ID, decimal.NewFromInt(200))
	testutil.CreateTestSavingGoal(t, db, user.ID, decimal.NewFromInt(300))

	contribution := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, decimal.NewFromInt(-150))
	testutil.AssertNoError(t, db.Model(contribution).Update("saving_goal_id", goal1.ID).Error)

	total, err := svc.TotalSavingsBalance(user.ID)
	testutil.AssertNoError(t, err)
	if !total.Equal(decimal.NewFromInt(650)) {
		t.Errorf("expected total 650, got %s", total)
	}
}

// Moving money between the general balance and a saving goal must not change
// the user's combined worth: the overall balance drops by exactly what the
// goal gains, and vice versa.
func TestBalanceConservationAcrossTransfer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBalanceService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, decimal.NewFromInt(1000))
	goal := testutil.CreateTestSavingGoal(t, db, user.ID, decimal.Zero)

	worth := func() decimal.Decimal {
		overall, err := svc.OverallBalance(user.ID)
		testutil.AssertNoError(t, err)
		savings, err := svc.TotalSavingsBalance(user.ID)
		testutil.AssertNoError(t, err)
		return overall.Add(savings)
	}

	before := worth()

	contribution := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, decimal.NewFromInt(-250))
	testutil.AssertNoError(t, db.Model(contribution).Update("saving_goal_id", goal.ID).Error)

	after := worth()
	if !before.Equal(after) {
		t.Errorf("combined worth changed across transfer: before %s, after %s", before, after)
	}

	overall, err := svc.OverallBalance(user.ID)
	testutil.AssertNoError(t, err)
	if !overall.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected overall 750, got %s", overall)
	}
	_, goalBalance, err := svc.SavingGoalBalance(user.ID, goal.ID)
	testutil.AssertNoError(t, err)
	if !goalBalance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected goal balance 250, got %s", goalBalance)
	}
}
