// Package guard forces test mode before any package init can start runtime
// side effects. Import it blank from integration-style tests.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("DEPTBOARD_TEST_MODE") == "" {
			_ = os.Setenv("DEPTBOARD_TEST_MODE", "1")
		}
	})
}
