package importer_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/autotracker/tracker-admin/internal/core/events"
	"github.com/autotracker/tracker-admin/internal/importer"
	"github.com/autotracker/tracker-admin/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Import service", func() {
	var (
		users   *fakeUserStore
		objects *fakeObjectStore
		fetcher *fakeFetcher
		log     *slog.Logger
	)

	BeforeEach(func() {
		users = newFakeUserStore()
		objects = newFakeObjectStore()
		fetcher = &fakeFetcher{failFor: map[string]error{}}
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	writeSource := func(content string) string {
		path := filepath.Join(GinkgoT().TempDir(), "export.json")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	It("should run the import end to end from a file export", func() {
		path := writeSource(`[
			{"id": "1", "cell": ["1", "alpha", "alpha@example.com.com", "<a class=\"userDeactivate\"></a>", "2027-01-01", "subuser", "", "2024-01-01", "", "127.0.0.1", "0", "0", "0", "0", "0", "0"]}
		]`)

		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)
		service := importer.NewService(importer.NewFileSource(path), coordinator, nil, log)

		summary, err := service.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Users).To(Equal(int64(1)))
		Expect(users.users["1"].UserEmail).To(Equal("alpha@example.com"))
	})

	It("should publish a completion event on the bus", func() {
		path := writeSource(`[{"id": "1", "cell": ["1", "alpha", "alpha@example.com"]}]`)

		bus := events.NewBus(log)
		received := make(chan events.Event, 1)
		bus.Subscribe(importer.EventImportCompleted, func(_ context.Context, ev events.Event) error {
			received <- ev
			return nil
		})

		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)
		service := importer.NewService(importer.NewFileSource(path), coordinator, bus, log)

		_, err := service.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		var ev events.Event
		Eventually(received).Should(Receive(&ev))
		Expect(ev.Type).To(Equal(importer.EventImportCompleted))
		Expect(ev.ID).NotTo(BeEmpty())
		Expect(ev.Payload).To(Equal(importer.Summary{Users: 1}))
	})

	It("should fail when the export file is missing", func() {
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)
		service := importer.NewService(importer.NewFileSource("does-not-exist.json"), coordinator, nil, log)

		_, err := service.Run(context.Background())
		Expect(err).To(MatchError(ContainSubstring("read import source")))
	})

	It("should fail when the export file is not valid JSON", func() {
		path := writeSource(`{"rows": "not an array"}`)

		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)
		service := importer.NewService(importer.NewFileSource(path), coordinator, nil, log)

		_, err := service.Run(context.Background())
		Expect(err).To(MatchError(ContainSubstring("parse import source")))
	})
})

var _ = Describe("Import handler", func() {
	It("should answer the legacy success shape plus scrapeFailures", func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		path := filepath.Join(GinkgoT().TempDir(), "export.json")
		Expect(os.WriteFile(path, []byte(`[{"id": "1", "cell": ["1", "alpha", "alpha@example.com"]}]`), 0o600)).To(Succeed())

		users := newFakeUserStore()
		objects := newFakeObjectStore()
		fetcher := &fakeFetcher{failFor: map[string]error{"1": os.ErrDeadlineExceeded}}

		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)
		service := importer.NewService(importer.NewFileSource(path), coordinator, nil, log)
		handler := importer.NewHandler(&transport.BaseHandler{Logger: log}, service)

		req := httptest.NewRequest(http.MethodPost, "/api/users/import", nil)
		w := httptest.NewRecorder()

		handler.RunImport(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var resp importer.ImportResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.Users).To(Equal(int64(1)))
		Expect(resp.Objects).To(BeZero())
		Expect(resp.ScrapeFailures).To(Equal(int64(1)))
	})
})
