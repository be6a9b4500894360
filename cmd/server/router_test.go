package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/assessment/adapters"
	"htb-gateway/internal/assessment/handler"
	"htb-gateway/internal/assessment/store"
	"htb-gateway/internal/documents"
	"htb-gateway/internal/platform/config"
	httpmetrics "htb-gateway/internal/platform/metrics"
	"htb-gateway/internal/regulations"
	"htb-gateway/pkg/platform/middleware/auth"
	"htb-gateway/pkg/platform/middleware/request"
	"htb-gateway/pkg/testutil"
)

const signingKey = "router-test-signing-key"

func testRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	credit := adapters.NewStaticCredit()
	credit.Set("1234567TA", 720, true)
	svc := assessment.NewService(regulations.Default(), credit, documents.Default(),
		assessment.WithStore(store.NewInMemory()),
		assessment.WithLogger(log),
	)
	inf := &infra{healthFns: map[string]func(context.Context) error{}}
	return buildRouter(cfg, log, handler.New(svc, documents.Default(), log), inf,
		httpmetrics.NewWithRegisterer(prometheus.NewRegistry()))
}

func baseConfig() config.Config {
	return config.Config{
		Server:    config.Server{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{WriteLimit: 100, ReadLimit: 100, Window: time.Minute},
	}
}

func application() assessment.Application {
	start := time.Now().AddDate(-5, 0, 0).UTC().Truncate(time.Second)
	return assessment.Application{
		Applicant: assessment.ApplicantProfile{
			Personal: assessment.PersonalDetails{
				Age: 32, Nationality: "Irish", IrishResident: true,
				MaritalStatus: assessment.MaritalSingle, PPSNumber: "1234567TA",
			},
			Financial: assessment.FinancialDetails{
				GrossAnnualIncome: 75000, NetMonthlyIncome: 6000, MonthlyExpenses: 400, DepositAmount: 40000,
			},
			Employment: assessment.EmploymentDetails{Type: assessment.EmploymentEmployed, StartDate: start},
		},
		Property: assessment.PropertyDetails{Price: 400000, Kind: "HOUSE", AgeYears: 5, EnergyRating: "C1"},
		Mortgage: assessment.MortgageTerms{LoanAmount: 340000, InterestRate: 0.035, TermYears: 30},
	}
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "an unauthenticated gateway", func(t *testing.T) {
		router := testRouter(t, baseConfig())

		testutil.When(t, "an application is submitted and read back", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/htb/assessments", application())
			req.Header.Set(request.HeaderRequestID, "req-abc")
			created := testutil.DoRequest(router, req)

			testutil.Then(t, "it is created and retrievable", func(t *testing.T) {
				require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
				assert.Equal(t, "req-abc", created.Header().Get(request.HeaderRequestID))
				assert.NotEmpty(t, created.Header().Get("X-RateLimit-Remaining"))

				location := created.Header().Get("Location")
				got := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, location))
				require.Equal(t, http.StatusOK, got.Code)

				record := testutil.DecodeJSON[assessment.Record](t, got)
				assert.Equal(t, assessment.StatusAssessed, record.Status)
			})
		})

		testutil.When(t, "calling GET /health", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
			})
		})

		testutil.When(t, "calling GET /metrics", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

			testutil.Then(t, "prometheus metrics are exposed", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
			})
		})
	})

	testutil.Given(t, "a gateway requiring bearer tokens", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Server.JWTSigningKey = signingKey
		cfg.Server.JWTIssuer = "htb-gateway"
		cfg.Server.JWTAudience = "htb-api"
		router := testRouter(t, cfg)

		testutil.When(t, "no token is presented", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/htb/regulations"))

			testutil.Then(t, "the request is rejected", func(t *testing.T) {
				testutil.AssertError(t, rec, http.StatusUnauthorized, "unauthorized")
			})
		})

		testutil.When(t, "a valid token is presented", func(t *testing.T) {
			token, err := auth.NewHMACValidator(signingKey, "htb-gateway", "htb-api").Issue("lender-portal", "htb", time.Hour)
			require.NoError(t, err)
			req := testutil.NewRequest(t, http.MethodGet, "/htb/regulations")
			req.Header.Set("Authorization", "Bearer "+token)
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "the regulations are served", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
			})
		})

		testutil.When(t, "the health endpoint is called without a token", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))

			testutil.Then(t, "it stays public", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
			})
		})
	})

	testutil.Given(t, "a tight write budget", func(t *testing.T) {
		cfg := baseConfig()
		cfg.RateLimit.WriteLimit = 1
		router := testRouter(t, cfg)

		testutil.When(t, "two applications are submitted", func(t *testing.T) {
			first := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/htb/assessments", application()))
			second := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/htb/assessments", application()))

			testutil.Then(t, "the second is throttled", func(t *testing.T) {
				assert.Equal(t, http.StatusCreated, first.Code)
				testutil.AssertError(t, second, http.StatusTooManyRequests, "rate_limit_exceeded")
			})
		})
	})
}

func TestBuildSubjectHasher(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("configured key is stable", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Audit.SubjectHashKey = "0123456789abcdef0123456789abcdef"

		a, err := buildSubjectHasher(cfg, log)
		require.NoError(t, err)
		b, err := buildSubjectHasher(cfg, log)
		require.NoError(t, err)
		assert.Equal(t, a.Hash("1234567TA"), b.Hash("1234567TA"))
	})

	t.Run("short key is rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Audit.SubjectHashKey = "short"

		_, err := buildSubjectHasher(cfg, log)
		require.Error(t, err)
	})

	t.Run("missing key falls back to a per-process key", func(t *testing.T) {
		h, err := buildSubjectHasher(baseConfig(), log)
		require.NoError(t, err)
		assert.NotEmpty(t, h.Hash("1234567TA"))
	})
}
