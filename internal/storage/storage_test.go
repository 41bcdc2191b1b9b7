package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The monitor's recovery swaps the gorm handle while request handlers are
// still reading it; both sides must go through the guarded accessors.
func TestServiceHandleSwap_IsSafeUnderConcurrentReads(t *testing.T) {
	s := &Service{logger: zap.NewNop()}
	replacement := &gorm.DB{}
	s.setDB(&gorm.DB{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				assert.NotNil(t, s.dbHandle())
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				s.setDB(replacement)
			}
		}()
	}
	wg.Wait()

	assert.Same(t, replacement, s.dbHandle())
}
