package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"centsimple/internal/models"
	"centsimple/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Coffee")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if cat.Name != "Coffee" {
			t.Errorf("expected name Coffee, got %s", cat.Name)
		}
		if cat.IsDefault() {
			t.Error("custom category should not be a default")
		}
	})

	t.Run("trims_whitespace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "  Coffee  ")
		testutil.AssertNoError(t, err)
		if cat.Name != "Coffee" {
			t.Errorf("expected trimmed name, got %q", cat.Name)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Coffee")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "COFFEE")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("duplicate_of_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateDefaultCategory(t, db, "Groceries")

		_, err := svc.CreateCategory(user.ID, "groceries")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_different_users_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Hobbies")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user2.ID, "Hobbies")
		testutil.AssertNoError(t, err)
	})
}

func TestListCategories(t *testing.T) {
	t.Run("includes_defaults_and_own_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateDefaultCategory(t, db, "Groceries")
		testutil.CreateTestCategoryWithName(t, db, user1.ID, "Coffee")
		testutil.CreateTestCategoryWithName(t, db, user2.ID, "Games")

		categories, _, err := svc.ListCategories(user1.ID)
		testutil.AssertNoError(t, err)

		if len(categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(categories))
		}
		for _, c := range categories {
			if c.Name == "Games" {
				t.Error("should not see another user's category")
			}
		}
	})

	t.Run("pinned_first_then_alphabetical", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategoryWithName(t, db, user.ID, "Zoo")
		testutil.CreateTestCategoryWithName(t, db, user.ID, "apples")
		pinned := testutil.CreateTestCategoryWithName(t, db, user.ID, "Travel")

		_, err := svc.TogglePin(user.ID, pinned.ID)
		testutil.AssertNoError(t, err)

		categories, pinnedIDs, err := svc.ListCategories(user.ID)
		testutil.AssertNoError(t, err)

		if len(pinnedIDs) != 1 || pinnedIDs[0] != pinned.ID {
			t.Errorf("expected pinned IDs [%s], got %v", pinned.ID, pinnedIDs)
		}

		got := make([]string, 0, len(categories))
		for _, c := range categories {
			got = append(got, c.Name)
		}
		want := []string{"Travel", "apples", "Zoo"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, got)
			}
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames_own_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Coffee")

		updated, err := svc.UpdateCategory(user.ID, cat.ID, "Cafes")
		testutil.AssertNoError(t, err)
		if updated.Name != "Cafes" {
			t.Errorf("expected name Cafes, got %s", updated.Name)
		}
	})

	t.Run("rename_to_same_name_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Coffee")

		_, err := svc.UpdateCategory(user.ID, cat.ID, "Coffee")
		testutil.AssertNoError(t, err)
	})

	t.Run("default_category_not_editable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateDefaultCategory(t, db, "Groceries")

		_, err := svc.UpdateCategory(user.ID, def.ID, "Food")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("foreign_category_reports_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID)

		_, err := svc.UpdateCategory(other.ID, cat.ID, "Mine Now")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rename_collides_with_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateDefaultCategory(t, db, "Groceries")
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Coffee")

		_, err := svc.UpdateCategory(user.ID, cat.ID, "GROCERIES")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("deletes_unused_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		_, err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Category{}).Where("id = ?", cat.ID).Count(&count)
		if count != 0 {
			t.Error("category should be deleted")
		}
	})

	t.Run("refuses_category_in_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, decimal.NewFromInt(25))
		testutil.AssertNoError(t, db.Model(tx).Update("category_id", cat.ID).Error)

		_, err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("default_category_not_deletable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateDefaultCategory(t, db, "Groceries")

		_, err := svc.DeleteCategory(user.ID, def.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.DeleteCategory(user.ID, "no-such-id")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestTogglePin(t *testing.T) {
	t.Run("toggles_on_and_off", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		pinned, err := svc.TogglePin(user.ID, cat.ID)
		testutil.AssertNoError(t, err)
		if !pinned {
			t.Error("expected category to be pinned")
		}

		pinned, err = svc.TogglePin(user.ID, cat.ID)
		testutil.AssertNoError(t, err)
		if pinned {
			t.Error("expected category to be unpinned")
		}
	})

	t.Run("default_category_pinnable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateDefaultCategory(t, db, "Groceries")

		pinned, err := svc.TogglePin(user.ID, def.ID)
		testutil.AssertNoError(t, err)
		if !pinned {
			t.Error("expected default category to be pinnable")
		}
	})

	t.Run("foreign_category_reports_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID)

		_, err := svc.TogglePin(other.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
