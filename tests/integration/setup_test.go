package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"centsimple/internal/handlers"
	"centsimple/internal/logger"
	"centsimple/internal/middleware"
	"centsimple/internal/models"
	"centsimple/internal/services"
	"centsimple/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mailer *captureMailer
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// captureMailer records verification emails instead of sending them.
type captureMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{tokens: make(map[string]string)}
}

func (m *captureMailer) SendVerificationEmail(toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[toEmail] = token
	return nil
}

// lastToken returns the most recent verification token sent to the address.
func (m *captureMailer) lastToken(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[email]
}

// stubGenerator returns canned AI responses.
type stubGenerator struct{}

func (stubGenerator) GenerateSummary(_ context.Context, _ *services.Report) (string, error) {
	return "You had a solid month of saving.", nil
}

func (stubGenerator) GenerateTaxTip(_ context.Context, _, _ string) (string, error) {
	return "Keep receipts for work-related expenses.", nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.UserPinnedCategory{},
		&models.Transaction{},
		&models.SavingGoal{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	mailer := newCaptureMailer()

	// Services
	userService := services.NewUserService(db)
	balanceService := services.NewBalanceService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, balanceService)
	savingService := services.NewSavingService(db, balanceService)
	reportService := services.NewReportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, mailer)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	savingHandler := handlers.NewSavingHandler(savingService)
	reportHandler := handlers.NewReportHandler(reportService, stubGenerator{})

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/resend-verification", authHandler.ResendVerification)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.POST("/:id/pin", categoryHandler.TogglePin)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	savings := protected.Group("/savings")
	savings.POST("", savingHandler.CreateSaving)
	savings.GET("", savingHandler.ListSavings)
	savings.GET("/:id/history", savingHandler.SavingHistory)
	savings.POST("/:id/spend", savingHandler.SpendFromSaving)
	savings.POST("/:id/transfer", savingHandler.Transfer)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/ai-summary", reportHandler.GetAISummary)
	reports.POST("/tax-tip", reportHandler.GetTaxTip)

	return &testApp{DB: db, Router: router, Mailer: mailer}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerAndVerify walks the full signup flow and returns a login token.
func (app *testApp) registerAndVerify(t *testing.T, email, password string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}

	verifyToken := app.Mailer.lastToken(strings.ToLower(email))
	if verifyToken == "" {
		t.Fatalf("no verification email captured for %s", email)
	}

	rec = app.request("POST", "/api/v1/auth/verify-email", fmt.Sprintf(`{"token":%q}`, verifyToken), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-email failed: %d %s", rec.Code, rec.Body.String())
	}

	return app.loginUser(t, email, password)
}

// loginUser logs in and returns the session token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}
