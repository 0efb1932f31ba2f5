package importer_test

import (
	"testing"

	"github.com/autotracker/tracker-admin/internal/importer"
	"github.com/autotracker/tracker-admin/internal/scraper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestImporter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Importer Suite")
}

var _ = Describe("TransformUserRow", func() {
	It("should map a full grid row onto a user", func() {
		row := scraper.RawRow{
			ID: "42",
			Cell: []string{
				"42",
				"fleet_owner",
				"owner@example.com",
				`<a class="userDeactivate" data-id="42">Deactivate</a>`,
				"2027-01-01",
				"subuser",
				`<a class="userApiDeactivate">Disable API</a>`,
				"2024-03-12",
				"2026-08-20 09:15:00",
				"203.0.113.10",
				"2",
				"Objects: 17",
				"4",
				"0",
				"1",
				"2",
			},
		}

		u := importer.TransformUserRow(row)

		Expect(u.UserID).To(Equal("42"))
		Expect(u.UserName).To(Equal("fleet_owner"))
		Expect(u.UserEmail).To(Equal("owner@example.com"))
		Expect(u.Active).To(BeTrue())
		Expect(u.ExpiryDate).To(Equal("2027-01-01"))
		Expect(u.Privileges).To(Equal("subuser"))
		Expect(u.APIAccess).To(BeTrue())
		Expect(u.RegistrationDate).To(Equal("2024-03-12"))
		Expect(u.LastLogin).To(Equal("2026-08-20 09:15:00"))
		Expect(u.IPAddress).To(Equal("203.0.113.10"))
		Expect(u.SubAccounts).To(Equal(2))
		Expect(u.ObjectCount).NotTo(BeNil())
		Expect(*u.ObjectCount).To(Equal(int64(17)))
		Expect(u.Email).To(Equal(4))
		Expect(u.SMS).To(Equal(0))
		Expect(u.Webhook).To(Equal(1))
		Expect(u.API).To(Equal(2))
	})

	It("should treat a missing deactivate button as inactive", func() {
		row := scraper.RawRow{Cell: []string{
			"7", "dormant", "dormant@example.com",
			`<a class="userActivate" data-id="7">Activate</a>`,
		}}

		u := importer.TransformUserRow(row)

		Expect(u.Active).To(BeFalse())
		Expect(u.APIAccess).To(BeFalse())
	})

	It("should tolerate short rows without panicking", func() {
		u := importer.TransformUserRow(scraper.RawRow{Cell: []string{"9"}})

		Expect(u.UserID).To(Equal("9"))
		Expect(u.UserName).To(BeEmpty())
		Expect(u.SubAccounts).To(Equal(0))
		Expect(u.ObjectCount).To(BeNil())
	})

	Describe("email normalization", func() {
		It("should strip a duplicated .com suffix", func() {
			row := scraper.RawRow{Cell: []string{"1", "x", "driver@example.com.com"}}
			Expect(importer.TransformUserRow(row).UserEmail).To(Equal("driver@example.com"))
		})

		It("should only strip the first occurrence", func() {
			row := scraper.RawRow{Cell: []string{"1", "x", "a.com.com.b@example.com.com"}}
			Expect(importer.TransformUserRow(row).UserEmail).To(Equal("a.com.b@example.com.com"))
		})

		It("should leave clean addresses untouched", func() {
			row := scraper.RawRow{Cell: []string{"1", "x", "clean@example.net"}}
			Expect(importer.TransformUserRow(row).UserEmail).To(Equal("clean@example.net"))
		})
	})

	Describe("object count extraction", func() {
		count := func(cell11 string) *int64 {
			row := scraper.RawRow{Cell: []string{
				"", "", "", "", "", "", "", "", "", "", "", cell11,
			}}
			return importer.TransformUserRow(row).ObjectCount
		}

		It("should take the first digit run", func() {
			Expect(count("Objects: 12 of 30")).To(HaveValue(Equal(int64(12))))
		})

		It("should handle a bare number", func() {
			Expect(count("5")).To(HaveValue(Equal(int64(5))))
		})

		It("should be nil when no digits are present", func() {
			Expect(count("none")).To(BeNil())
			Expect(count("")).To(BeNil())
		})
	})
})

var _ = Describe("TransformObjectRow", func() {
	It("should map the grid row and use the IMEI as identity", func() {
		row := scraper.RawRow{Cell: []string{
			"Truck Alpha",
			"350317178881001",
			`<a class="objectDeactivate">Deactivate</a>`,
			"2027-01-01",
			"2026-08-27 22:41:13",
			`<span class="connection-gsm-gps"></span>`,
		}}

		obj := importer.TransformObjectRow(row, "42")

		Expect(obj.ObjectID).To(Equal("350317178881001"))
		Expect(obj.IMEI).To(Equal("350317178881001"))
		Expect(obj.UserID).To(Equal("42"))
		Expect(obj.Name).To(Equal("Truck Alpha"))
		Expect(obj.Active).To(BeTrue())
		Expect(obj.ExpiryDate).To(Equal("2027-01-01"))
		Expect(obj.LastConnection).To(Equal("2026-08-27 22:41:13"))
		Expect(obj.Status).To(BeTrue())
	})

	It("should report offline status when the connection marker is absent", func() {
		row := scraper.RawRow{Cell: []string{
			"Sedan Gamma", "868120148882001", "", "2026-02-01", "-",
			`<span class="connection-none"></span>`,
		}}

		obj := importer.TransformObjectRow(row, "7")

		Expect(obj.Active).To(BeFalse())
		Expect(obj.Status).To(BeFalse())
	})
})
