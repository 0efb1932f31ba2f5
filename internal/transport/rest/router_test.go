package rest_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/object"
	objectPostgres "github.com/autotracker/tracker-admin/internal/object/postgres"
	"github.com/autotracker/tracker-admin/internal/transport"
	"github.com/autotracker/tracker-admin/internal/transport/rest"
	"github.com/autotracker/tracker-admin/internal/user"
	userPostgres "github.com/autotracker/tracker-admin/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Router", func() {
	var router *chi.Mux

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userdm.User{}, &objectdm.TrackedObject{})).To(Succeed())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		base := &transport.BaseHandler{Logger: slogger}
		userHandler := user.NewHandler(base, user.NewService(userPostgres.NewUserRepository(db), slogger))
		objectHandler := object.NewHandler(base, object.NewService(objectPostgres.NewObjectRepository(db), slogger))

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, sqlDB, "http://localhost:3000", userHandler, objectHandler, nil, slogger)
	})

	do := func(method, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should serve the liveness endpoint", func() {
		w := do(http.MethodGet, "/api/ping")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status": "OK"}`))
	})

	It("should report a healthy database", func() {
		w := do(http.MethodGet, "/api/health")

		Expect(w.Code).To(Equal(http.StatusOK))

		var resp rest.HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("postgres"))
	})

	It("should serve the user grid through the full middleware chain", func() {
		w := do(http.MethodGet, "/api/users")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should answer CORS preflight for an allowed origin", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	})

	It("should route the legacy object alias to the user-scoped listing", func() {
		w := do(http.MethodGet, "/api/objects/1001")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"total"`))
	})
})
