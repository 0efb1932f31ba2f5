package importer_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/importer"
	"github.com/autotracker/tracker-admin/internal/scraper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]userdm.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]userdm.User)}
}

func (s *fakeUserStore) Upsert(_ context.Context, u *userdm.User) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = *u
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string]objectdm.TrackedObject
	err     error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]objectdm.TrackedObject)}
}

func (s *fakeObjectStore) BulkUpsert(_ context.Context, batch []objectdm.TrackedObject) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range batch {
		s.objects[obj.ObjectID] = obj
	}
	return nil
}

type fakeFetcher struct {
	rows    map[string][]scraper.RawRow
	failFor map[string]error
}

func (f *fakeFetcher) FetchObjects(_ context.Context, userID string) ([]scraper.RawRow, error) {
	if err, ok := f.failFor[userID]; ok {
		return nil, err
	}
	return f.rows[userID], nil
}

var _ = Describe("Coordinator", func() {
	var (
		users   *fakeUserStore
		objects *fakeObjectStore
		fetcher *fakeFetcher
		log     *slog.Logger
	)

	userRow := func(id, name string) scraper.RawRow {
		return scraper.RawRow{ID: id, Cell: []string{
			id, name, name + "@example.com",
			`<a class="userDeactivate"></a>`,
			"2027-01-01", "subuser", "", "2024-01-01", "", "127.0.0.1",
			"0", "2", "0", "0", "0", "0",
		}}
	}

	objectRow := func(name, imei string) scraper.RawRow {
		return scraper.RawRow{Cell: []string{
			name, imei, `<a class="objectDeactivate"></a>`,
			"2027-01-01", "2026-08-27 10:00:00", `<span class="connection-gsm-gps"></span>`,
		}}
	}

	BeforeEach(func() {
		users = newFakeUserStore()
		objects = newFakeObjectStore()
		fetcher = &fakeFetcher{
			rows: map[string][]scraper.RawRow{
				"1": {objectRow("Truck Alpha", "350000000000001"), objectRow("Truck Beta", "350000000000002")},
				"2": {objectRow("Sedan Gamma", "350000000000003")},
			},
			failFor: map[string]error{},
		}
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("should import every user with their objects", func() {
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)

		summary, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("1", "alpha"), userRow("2", "beta")})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Users).To(Equal(int64(2)))
		Expect(summary.Objects).To(Equal(int64(3)))
		Expect(summary.ScrapeFailures).To(BeZero())

		Expect(users.users).To(HaveLen(2))
		Expect(objects.objects).To(HaveLen(3))
		Expect(objects.objects["350000000000003"].UserID).To(Equal("2"))
	})

	It("should be idempotent across reruns", func() {
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)
		rows := []scraper.RawRow{userRow("1", "alpha"), userRow("2", "beta")}

		first, err := coordinator.ImportAll(context.Background(), rows)
		Expect(err).NotTo(HaveOccurred())

		second, err := coordinator.ImportAll(context.Background(), rows)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(users.users).To(HaveLen(2))
		Expect(objects.objects).To(HaveLen(3))
	})

	It("should keep the user and count the failure when a scrape fails", func() {
		fetcher.failFor["1"] = errors.New("legacy panel returned garbage")
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)

		summary, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("1", "alpha"), userRow("2", "beta")})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Users).To(Equal(int64(2)))
		Expect(summary.Objects).To(Equal(int64(1)))
		Expect(summary.ScrapeFailures).To(Equal(int64(1)))

		Expect(users.users).To(HaveKey("1"))
		Expect(objects.objects).NotTo(HaveKey("350000000000001"))
	})

	It("should not count a user with zero objects as a failure", func() {
		fetcher.rows["2"] = nil
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)

		summary, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("2", "beta")})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Users).To(Equal(int64(1)))
		Expect(summary.Objects).To(BeZero())
		Expect(summary.ScrapeFailures).To(BeZero())
	})

	It("should abort when persisting a user fails", func() {
		users.err = errors.New("connection refused")
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)

		_, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("1", "alpha")})

		Expect(err).To(MatchError(ContainSubstring("upsert user 1")))
	})

	It("should abort when persisting objects fails", func() {
		objects.err = errors.New("constraint violation")
		coordinator := importer.NewCoordinator(users, objects, fetcher, 1, log)

		summary, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("1", "alpha")})

		Expect(err).To(MatchError(ContainSubstring("bulk upsert")))
		Expect(summary.Users).To(BeZero())
		// the user row itself stays committed
		Expect(users.users).To(HaveKey("1"))
	})

	It("should produce the same result with a worker pool", func() {
		coordinator := importer.NewCoordinator(users, objects, fetcher, 4, log)

		summary, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("1", "alpha"), userRow("2", "beta")})

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Users).To(Equal(int64(2)))
		Expect(summary.Objects).To(Equal(int64(3)))
		Expect(objects.objects).To(HaveLen(3))
	})

	It("should surface the first error from the worker pool", func() {
		users.err = errors.New("connection refused")
		coordinator := importer.NewCoordinator(users, objects, fetcher, 4, log)

		_, err := coordinator.ImportAll(context.Background(),
			[]scraper.RawRow{userRow("1", "alpha"), userRow("2", "beta"), userRow("3", "gamma")})

		Expect(err).To(MatchError(ContainSubstring("upsert user")))
	})
})
