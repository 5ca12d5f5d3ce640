package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// newReservationCode builds codes such as SR20261016-4F9A1C: the start date
// followed by six random hex digits.
func newReservationCode(start time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")

	return "SR" + start.Format("20060102") + "-" + strings.ToUpper(random[:6])
}
