package postgres_test

import (
	"context"
	"testing"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/listquery"
	"github.com/autotracker/tracker-admin/internal/user"
	userPostgres "github.com/autotracker/tracker-admin/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Repository", func() {
	var (
		db   *gorm.DB
		repo user.Repository
		ctx  context.Context
	)

	listSpec := listquery.Spec{
		Page:      1,
		Limit:     200,
		SortField: "userId",
		SortOrder: listquery.OrderAsc,
	}

	newUser := func(id, name string) *userdm.User {
		return &userdm.User{
			UserID:     id,
			UserName:   name,
			UserEmail:  name + "@example.com",
			Active:     true,
			Privileges: "subuser",
		}
	}

	newObject := func(imei, userID, name string) *objectdm.TrackedObject {
		return &objectdm.TrackedObject{
			ObjectID: imei,
			UserID:   userID,
			IMEI:     imei,
			Name:     name,
			Active:   true,
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userdm.User{}, &objectdm.TrackedObject{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
	})

	Describe("Create and GetByID", func() {
		It("should round-trip a user with its objects", func() {
			Expect(repo.Create(ctx, newUser("1001", "alpha"))).To(Succeed())
			Expect(db.Create(newObject("350000000000001", "1001", "Truck Alpha")).Error).To(Succeed())

			got, err := repo.GetByID(ctx, "1001")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserName).To(Equal("alpha"))
			Expect(got.Objects).To(HaveLen(1))
			Expect(got.Objects[0].Name).To(Equal("Truck Alpha"))
		})

		It("should blank the owner on nested objects", func() {
			Expect(repo.Create(ctx, newUser("1001", "alpha"))).To(Succeed())
			Expect(db.Create(newObject("350000000000001", "1001", "Truck Alpha")).Error).To(Succeed())

			got, err := repo.GetByID(ctx, "1001")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Objects[0].UserID).To(BeEmpty())
		})

		It("should return ErrUserNotFound for a missing id", func() {
			_, err := repo.GetByID(ctx, "nope")
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})

		It("should return ErrUserExists on a duplicate id", func() {
			Expect(repo.Create(ctx, newUser("1001", "alpha"))).To(Succeed())
			Expect(repo.Create(ctx, newUser("1001", "other"))).To(MatchError(user.ErrUserExists))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(repo.Create(ctx, newUser("1001", "alpha"))).To(Succeed())
			Expect(repo.Create(ctx, newUser("1002", "beta"))).To(Succeed())
			Expect(db.Create(newObject("350000000000001", "1001", "Truck Alpha")).Error).To(Succeed())
		})

		It("should list flat rows without objects", func() {
			page, err := repo.List(ctx, listSpec)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(2)))
			Expect(page.Data[0].Objects).To(BeEmpty())
		})

		It("should nest objects in ListWithObjects", func() {
			page, err := repo.ListWithObjects(ctx, listSpec)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Data[0].UserID).To(Equal("1001"))
			Expect(page.Data[0].Objects).To(HaveLen(1))
			Expect(page.Data[0].Objects[0].UserID).To(BeEmpty())
			Expect(page.Data[1].Objects).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("should write only the given columns", func() {
			Expect(repo.Create(ctx, newUser("1001", "alpha"))).To(Succeed())

			Expect(repo.Update(ctx, "1001", map[string]interface{}{
				"user_name": "renamed",
				"active":    false,
			})).To(Succeed())

			got, err := repo.GetByID(ctx, "1001")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserName).To(Equal("renamed"))
			Expect(got.Active).To(BeFalse())
			Expect(got.UserEmail).To(Equal("alpha@example.com"))
		})
	})

	Describe("Delete", func() {
		It("should report the number of rows removed", func() {
			Expect(repo.Create(ctx, newUser("1001", "alpha"))).To(Succeed())

			count, err := repo.Delete(ctx, "1001")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			_, err = repo.GetByID(ctx, "1001")
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})

		It("should report zero for a missing id", func() {
			count, err := repo.Delete(ctx, "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("Upsert", func() {
		It("should insert a new row", func() {
			Expect(repo.Upsert(ctx, newUser("1001", "alpha"))).To(Succeed())

			got, err := repo.GetByID(ctx, "1001")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserName).To(Equal("alpha"))
		})

		It("should replace every column on conflict", func() {
			Expect(repo.Upsert(ctx, newUser("1001", "alpha"))).To(Succeed())

			replacement := newUser("1001", "renamed")
			replacement.Active = false
			replacement.Privileges = "Administrator"
			Expect(repo.Upsert(ctx, replacement)).To(Succeed())

			page, err := repo.List(ctx, listSpec)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(1)))
			Expect(page.Data[0].UserName).To(Equal("renamed"))
			Expect(page.Data[0].Active).To(BeFalse())
			Expect(page.Data[0].Privileges).To(Equal("Administrator"))
		})
	})
})
