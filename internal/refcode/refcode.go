// Package refcode generates external reference codes such as student and
// teacher numbers.
package refcode

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StudentPrefix = "STU"
	TeacherPrefix = "TCH"
)

// New returns "<prefix>-<unix millis>-<8 hex chars>". The random suffix keeps
// codes generated within the same millisecond apart.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

func NewAt(prefix string, at time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%d-%s", prefix, at.UnixMilli(), hex.EncodeToString(id[:4]))
}
