// internal/pkg/ref/ref.go
package ref

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a prefixed, sortable, unique reference such as
// SUB-01J9GZ9K3VQ4R8X2M5T7E6W1BC.
func New(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return fmt.Sprintf("%s-%s", prefix, id.String())
}
