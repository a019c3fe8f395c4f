package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MarcsHandy/AfriFresh/internal/adapter/storage"
	"github.com/MarcsHandy/AfriFresh/internal/clock"
	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/core/service"
)

const (
	totalMutators  = 50
	opsPerMutator  = 200
	checkoutRacers = 25
	stressGrace    = 5 * time.Millisecond
	stressSettle   = 20 * time.Millisecond
)

func main() {
	ctx := context.Background()

	history := storage.NewMemoryOrderHistory()
	cart := service.NewCart(history, clock.NewSystem(),
		service.WithGracePeriod(stressGrace),
		service.WithSettleDelay(stressSettle),
	)

	products := []domain.Product{
		{ID: "tomatoes", Name: "Tomatoes", Price: 1800, InStock: true},
		{ID: "matoke", Name: "Matoke (Bananas)", Price: 2500, InStock: true},
		{ID: "cassava", Name: "Cassava", Price: 2200, InStock: true},
	}

	// Hammer the cart with concurrent adds, zeroings and revivals.
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalMutators; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p := products[id%len(products)]
			for j := 0; j < opsPerMutator; j++ {
				cart.Add(p)
				for _, line := range cart.Lines() {
					if line.Product.ID == p.ID {
						switch j % 3 {
						case 0:
							cart.SetQuantity(line.ID, 0)
							cart.SetQuantity(line.ID, 2)
						case 1:
							cart.Decrement(p.ID)
						case 2:
							cart.SetQuantity(line.ID, 5)
						}
					}
				}
			}
		}(i)
	}
	wg.Wait()

	mutationElapsed := time.Since(start)

	// Line-uniqueness invariant: never more than one line per product id.
	seen := make(map[string]int)
	for _, line := range cart.Lines() {
		seen[line.Product.ID]++
	}
	uniqueOK := true
	for id, n := range seen {
		if n > 1 {
			uniqueOK = false
			fmt.Printf("FAIL: product %s has %d lines\n", id, n)
		}
	}

	// Make every line checkout-eligible, then race checkouts.
	for _, line := range cart.Lines() {
		cart.SetQuantity(line.ID, 1)
	}
	if len(cart.Lines()) == 0 {
		cart.Add(products[0])
	}

	var accepted, rejected atomic.Int32
	for i := 0; i < checkoutRacers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done, err := cart.Checkout(ctx, "stress-user")
			if err != nil {
				if errors.Is(err, service.ErrCheckoutInProgress) {
					rejected.Add(1)
				}
				return
			}
			accepted.Add(1)
			<-done
		}()
	}
	wg.Wait()

	orders, _ := history.OrdersByUser(ctx, "stress-user")

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Mutators:          %d x %d ops\n", totalMutators, opsPerMutator)
	fmt.Printf("Mutation duration: %v\n", mutationElapsed)
	fmt.Printf("Checkout accepted: %d\n", accepted.Load())
	fmt.Printf("Checkout rejected: %d\n", rejected.Load())
	fmt.Printf("Orders recorded:   %d\n", len(orders))
	fmt.Println("==========================================")

	if uniqueOK {
		fmt.Println("PASS: at most one line per product id")
	}
	if accepted.Load() == 1 && len(orders) == 1 {
		fmt.Println("PASS: checkout was single-flight, exactly one order placed")
	} else {
		fmt.Printf("FAIL: expected 1 accepted checkout and 1 order, got %d/%d\n",
			accepted.Load(), len(orders))
	}
}
