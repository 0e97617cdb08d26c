package machine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachine_ConcurrentOperations(t *testing.T) {
	m := newTestMachine(t, fixture{products: map[string]int{"Coke": 50, "Pepsi": 50, "Water": 50}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := m.ProductNames()[i%3]
			for j := 0; j < 25; j++ {
				_, _ = m.Select(name, 1)
				_, _ = m.Remove(name, 1)
				_ = m.DescribeState(nil)
				_ = m.Audit()
			}
		}(i)
	}
	wg.Wait()

	assertConsistent(t, m)
	assert.Empty(t, m.Session().Products)
	for _, info := range m.Inventory() {
		assert.Equal(t, 50, info.Quantity, info.Name)
	}
}

func TestSnapshot_ConsistentUnderConcurrentSelection(t *testing.T) {
	m := newTestMachine(t, fixture{products: map[string]int{"Coke": 50, "Pepsi": 50, "Water": 50}})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := m.ProductNames()[i%3]
			for {
				select {
				case <-stop:
					return
				default:
				}
				_, _ = m.Select(name, 1)
				_, _ = m.Remove(name, 1)
			}
		}(i)
	}

	for i := 0; i < 200; i++ {
		state := m.Snapshot()
		for _, info := range state.Products {
			assert.Equal(t, 50, info.Quantity+state.Session.Products[info.Name], info.Name)
		}
		assert.Equal(t, "customer", state.Role)
	}
	close(stop)
	wg.Wait()

	assertConsistent(t, m)
}
