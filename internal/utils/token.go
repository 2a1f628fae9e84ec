package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransactionID builds the human-readable receipt token, e.g. "TXN-20260830-3F2A9C41".
// The date keeps it scannable in reports; the uuid fragment keeps two tills from
// colliding inside the same second.
func NewTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", time.Now().Format("20060102"), suffix)
}
