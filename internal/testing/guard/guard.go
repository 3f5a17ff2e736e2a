// Package guard flips the application into test mode as soon as it is
// imported, so test binaries never open real connections or start servers.
// Import it for side effects from any package whose tests touch main wiring.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("ALMACEN_TEST_MODE") == "" {
			_ = os.Setenv("ALMACEN_TEST_MODE", "1")
		}
	})
}
