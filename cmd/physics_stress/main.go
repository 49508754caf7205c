// Stress test timing Environment updates at increasing joint counts
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"time"

	"springsim/internal/physics"
)

func main() {
	var (
		iterations = flag.Int("iterations", 20, "timed updates per joint count")
		pairing    = flag.String("pairing", "once", "collision pairing: once or reference")
		springs    = flag.Bool("springs", true, "join neighbouring joints in pairs with springs")
	)
	flag.Parse()

	p, err := physics.ParsePairing(*pairing)
	if err != nil {
		panic(fmt.Sprintf("Bad pairing: %v", err))
	}

	fmt.Printf("Pairing: %s | springs: %v | %d iterations\n\n", p, *springs, *iterations)

	testCounts := []int{100, 250, 500, 1000, 2000, 4000}
	for _, count := range testCounts {
		testUpdate(count, *iterations, p, *springs)
	}
}

func testUpdate(count, iterations int, pairing physics.Pairing, withSprings bool) {
	// Arena grows with count to keep density reasonable
	side := int(200 + 20*math.Sqrt(float64(count)))

	opts := physics.DefaultOptions(side, side)
	opts.Pairing = pairing
	opts.DetectLines = false
	env, err := physics.NewEnvironmentWithOptions(opts)
	if err != nil {
		panic(fmt.Sprintf("Failed to create environment: %v", err))
	}

	rng := rand.New(rand.NewSource(42)) // Consistent results
	for i := 0; i < count; i++ {
		env.AddJoint(
			rng.Float64()*float64(side),
			rng.Float64()*float64(side),
			3+rng.Float64()*4,
			rng.Float64()*2*math.Pi,
			rng.Float64()*5,
		)
	}
	if withSprings {
		for i := 0; i+1 < count; i += 2 {
			env.AddSpring(i, i+1, 20, 1)
		}
	}

	contacts := 0
	env.OnContact.AddListener(func(physics.Contact) { contacts++ })

	// Warm up
	env.Update(1.0 / 60)
	contacts = 0

	start := time.Now()
	for i := 0; i < iterations; i++ {
		env.Update(1.0 / 60)
	}
	elapsed := time.Since(start) / time.Duration(iterations)

	fmt.Printf("%5d joints: %10v per update | %6d contacts/update | KE %.0f\n",
		count, elapsed.Round(time.Microsecond), contacts/iterations, env.TotalKineticEnergy())
}
