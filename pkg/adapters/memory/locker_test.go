package memory_test

import (
	"testing"

	"github.com/aretw0/framesync/pkg/adapters/memory"
	"github.com/aretw0/framesync/pkg/ports"
)

func TestMemoryLocker_Contract(t *testing.T) {
	locker := memory.NewLocker()
	ports.RunLockerContract(t, func() ports.DistributedLocker { return locker })
}
