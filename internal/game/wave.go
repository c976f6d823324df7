package game

import (
	"math/rand"

	"castle-defenders/server/catalog"
)

// spawnOrder schedules one enemy relative to the start of its wave. Delay is
// milliseconds from wave start.
type spawnOrder struct {
	Type  catalog.EnemyType
	Delay int64
}

// generateWave builds the spawn schedule for the given wave number. The
// schedule depends only on the wave number and the RNG stream, so a seeded
// session reproduces its waves exactly.
func generateWave(wave int, rng *rand.Rand) []spawnOrder {
	baseCount := 5 + int(float64(wave)*1.5)
	orders := make([]spawnOrder, 0, baseCount+2)

	if wave%5 == 0 {
		orders = append(orders, spawnOrder{Type: catalog.EnemyBoss, Delay: 0})
		for i := 0; i < wave/2; i++ {
			orders = append(orders, spawnOrder{Type: catalog.EnemyHealer, Delay: int64(500 + i*300)})
		}
	}

	for i := 0; i < baseCount; i++ {
		typ := catalog.EnemyGrunt
		roll := rng.Float64()

		// Later checks override earlier ones on purpose: a low roll on a
		// high wave lands on the last archetype whose gate it clears.
		if wave >= 3 && roll < 0.2 {
			typ = catalog.EnemyRunner
		}
		if wave >= 5 && roll < 0.15 {
			typ = catalog.EnemyTank
		}
		if wave >= 7 && roll < 0.1 {
			typ = catalog.EnemyHealer
		}
		if wave >= 8 && roll < 0.12 {
			typ = catalog.EnemyShield
		}
		if wave >= 10 && roll < 0.25 {
			typ = catalog.EnemySwarm
		}
		if wave >= 12 && roll < 0.08 {
			typ = catalog.EnemyGhost
		}
		if wave >= 15 && roll < 0.1 {
			typ = catalog.EnemyBerserker
		}

		orders = append(orders, spawnOrder{Type: typ, Delay: int64(i * 400)})
	}

	if wave%7 == 0 {
		for i := 0; i < 20; i++ {
			orders = append(orders, spawnOrder{Type: catalog.EnemySwarm, Delay: int64(baseCount*400 + i*150)})
		}
	}

	return orders
}
