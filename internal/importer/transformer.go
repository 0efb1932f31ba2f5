package importer

import (
	"strconv"
	"strings"
	"unicode"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/scraper"
)

// Action-button markers embedded in scraped cell HTML. The grid renders a
// "deactivate" button only on entities that are currently active, so marker
// presence means active — the inversion is deliberate and load-bearing.
const (
	userDeactivateMarker    = "userDeactivate"
	userAPIDeactivateMarker = "userApiDeactivate"
	objectDeactivateMarker  = "objectDeactivate"
	gsmGpsConnectionMarker  = "connection-gsm-gps"
)

// TransformUserRow maps the 16-cell user grid row onto a User record. Total
// function: short or malformed rows produce zero-valued fields, never an
// error.
func TransformUserRow(row scraper.RawRow) userdm.User {
	return userdm.User{
		UserID:           cell(row, 0),
		UserName:         cell(row, 1),
		UserEmail:        normalizeEmail(cell(row, 2)),
		Active:           strings.Contains(cell(row, 3), userDeactivateMarker),
		ExpiryDate:       cell(row, 4),
		Privileges:       cell(row, 5),
		APIAccess:        strings.Contains(cell(row, 6), userAPIDeactivateMarker),
		RegistrationDate: cell(row, 7),
		LastLogin:        cell(row, 8),
		IPAddress:        cell(row, 9),
		SubAccounts:      atoiOrZero(cell(row, 10)),
		ObjectCount:      extractNumber(cell(row, 11)),
		Email:            atoiOrZero(cell(row, 12)),
		SMS:              atoiOrZero(cell(row, 13)),
		Webhook:          atoiOrZero(cell(row, 14)),
		API:              atoiOrZero(cell(row, 15)),
	}
}

// TransformObjectRow maps the 6-cell object grid row onto a TrackedObject
// owned by userID. Cell 1 holds the IMEI, which the legacy grid also uses as
// the row identity.
func TransformObjectRow(row scraper.RawRow, userID string) objectdm.TrackedObject {
	return objectdm.TrackedObject{
		ObjectID:       cell(row, 1),
		UserID:         userID,
		Name:           cell(row, 0),
		IMEI:           cell(row, 1),
		Active:         strings.Contains(cell(row, 2), objectDeactivateMarker),
		ExpiryDate:     cell(row, 3),
		LastConnection: cell(row, 4),
		Status:         strings.Contains(cell(row, 5), gsmGpsConnectionMarker),
	}
}

func cell(row scraper.RawRow, index int) string {
	if index >= len(row.Cell) {
		return ""
	}
	return row.Cell[index]
}

// normalizeEmail corrects a known source defect where addresses arrive with
// a duplicated domain suffix. Only the first occurrence is stripped; a clean
// address passes through untouched.
func normalizeEmail(email string) string {
	return strings.Replace(email, ".com.com", ".com", 1)
}

// extractNumber returns the first run of digits in the input ("Objects: 12"
// yields 12), or nil when the input has no digits at all.
func extractNumber(input string) *int64 {
	start := -1
	for i, r := range input {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return parseInt64(input[start:i])
		}
	}
	if start >= 0 {
		return parseInt64(input[start:])
	}
	return nil
}

func parseInt64(digits string) *int64 {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func atoiOrZero(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0
	}
	return n
}
