package checkout

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const referenceCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReferenceCode builds the customer-visible order reference that also
// feeds the pickup QR code: ORDER-<unix millis>-<6 random base36 chars>.
func NewReferenceCode(now time.Time) string {
	var suffix strings.Builder
	for i := 0; i < 6; i++ {
		suffix.WriteByte(referenceCharset[rand.Intn(len(referenceCharset))])
	}
	return fmt.Sprintf("ORDER-%d-%s", now.UnixMilli(), suffix.String())
}
