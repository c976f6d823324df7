package game

import (
	"context"
	"fmt"
	"math"

	"castle-defenders/server/catalog"
	"castle-defenders/server/logging"
	combatlog "castle-defenders/server/logging/combat"
	economylog "castle-defenders/server/logging/economy"
)

// chainShot marks a wizard chain-lightning projectile. It never matches a
// catalog entry, so chain hits skip splash and skeleton handling.
const chainShot catalog.TowerType = "chain"

// Update advances the simulation by one tick. now is the shared driver clock
// in unix milliseconds; dt is the measured delta in milliseconds. Sessions
// not in the playing state ignore the call. Inconsistencies inside a tick
// (dangling targets, unknown archetypes) degrade to per-entity no-ops, never
// to a failed tick.
func (s *Session) Update(now int64, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return
	}
	s.tick++

	s.advanceSpawns(dt)
	s.advanceEnemies(now, dt)
	s.applyHealerAuras(dt)
	s.fireTowers(now)
	s.advanceProjectiles(now)
	s.advanceTroops(dt)

	if s.waveInProgress && len(s.enemies) == 0 && len(s.pendingSpawns) == 0 {
		s.waveInProgress = false
	}

	if s.castleHealth <= 0 {
		s.castleHealth = 0
		s.state = StateEnded
		s.computeResults()
	}
}

func (s *Session) advanceSpawns(dt float64) {
	if len(s.pendingSpawns) == 0 {
		return
	}
	s.spawnClock += dt
	for len(s.pendingSpawns) > 0 && s.spawnClock >= float64(s.pendingSpawns[0].Delay) {
		order := s.pendingSpawns[0]
		s.pendingSpawns = s.pendingSpawns[1:]
		s.spawnEnemy(order.Type)
	}
}

func (s *Session) spawnEnemy(typ catalog.EnemyType) {
	def, ok := s.catalog.Enemy(typ)
	if !ok {
		return
	}
	s.nextEnemyID++
	id := fmt.Sprintf("enemy-%d", s.nextEnemyID)
	s.enemies = append(s.enemies, newEnemyState(id, typ, def, s.wave, s.path[0]))
}

func (s *Session) advanceEnemies(now int64, dt float64) {
	survivors := s.enemies[:0]
	for _, enemy := range s.enemies {
		if enemy.stunnedUntil > now {
			survivors = append(survivors, enemy)
			continue
		}

		if enemy.burning(now) {
			enemy.Health -= enemy.burnDamage * (dt / 1000)
		}

		if enemy.enrages && !enemy.enraged && enemy.Health < enemy.MaxHealth*0.3 {
			enemy.enraged = true
			enemy.speed *= 2
			enemy.Color = "#FF0000"
		}

		speed := enemy.speed
		if enemy.slowedUntil > now {
			speed *= 0.5
		}

		if enemy.pathIndex+1 < len(s.path) {
			target := s.path[enemy.pathIndex+1]
			dx := target.X - enemy.X
			dy := target.Y - enemy.Y
			dist := math.Hypot(dx, dy)
			if dist < speed*2 {
				enemy.pathIndex++
			} else {
				enemy.X += (dx / dist) * speed * (dt / 16)
				enemy.Y += (dy / dist) * speed * (dt / 16)
			}
		} else {
			damage := 10 + s.wave/2
			s.castleHealth -= damage
			combatlog.CastleBreached(context.Background(), s.pub, s.id, s.tick,
				logging.EntityRef{ID: enemy.ID, Kind: logging.EntityKindEnemy},
				combatlog.CastleBreachedPayload{EnemyType: string(enemy.Type), Damage: damage, CastleHealth: s.castleHealth})
			continue
		}

		if enemy.Health <= 0 {
			continue
		}
		survivors = append(survivors, enemy)
	}
	for i := len(survivors); i < len(s.enemies); i++ {
		s.enemies[i] = nil
	}
	s.enemies = survivors
}

// applyHealerAuras restores health to every enemy within radius 80 of a
// healer. This is a full pairwise pass; enemy counts stay small enough that
// it never dominates a tick.
func (s *Session) applyHealerAuras(dt float64) {
	heal := 0.5 * (dt / 16)
	for _, healer := range s.enemies {
		if !healer.heals {
			continue
		}
		for _, other := range s.enemies {
			if other.ID == healer.ID {
				continue
			}
			if math.Hypot(other.X-healer.X, other.Y-healer.Y) < 80 {
				other.Health = math.Min(other.MaxHealth, other.Health+heal)
			}
		}
	}
}

func (s *Session) fireTowers(now int64) {
	shrineDef, _ := s.catalog.Tower(catalog.TowerShrine)

	for _, tower := range s.towers {
		def, ok := s.catalog.Tower(tower.Type)
		if !ok {
			continue
		}

		if tower.Type == catalog.TowerGoldmine {
			if now-tower.lastFired >= def.FireRate {
				tower.lastFired = now
				// Income has nowhere to land without an owner; the mine
				// still ticks so it resumes cleanly on reconnect.
				if owner, ok := s.players[tower.OwnerID]; ok {
					amount := int(float64(def.GoldPerTick) * tower.stats.MineEfficiencyMultiplier)
					owner.Gold += amount
					economylog.GoldGenerated(context.Background(), s.pub, s.id, s.tick,
						logging.EntityRef{ID: owner.ID, Kind: logging.EntityKindPlayer},
						economylog.GoldGeneratedPayload{Amount: amount})
				}
			}
			continue
		}
		if tower.Type == catalog.TowerShrine {
			continue
		}

		effFireRate := float64(def.FireRate) / tower.stats.SpeedMultiplier
		if float64(now-tower.lastFired) < effFireRate {
			continue
		}

		effRange := def.Range * tower.stats.RangeMultiplier
		target := s.nearestEnemy(tower.X, tower.Y, effRange, func(e *enemyState) bool {
			return !e.phasing || def.MagicDamage()
		})
		if target == nil {
			continue
		}
		tower.lastFired = now

		shrineBoost := 1.0
		if shrineDef != nil {
			for _, other := range s.towers {
				if other.Type != catalog.TowerShrine {
					continue
				}
				if math.Hypot(other.X-tower.X, other.Y-tower.Y) <= shrineDef.Range {
					shrineBoost += shrineDef.DamageBoost
				}
			}
		}

		damage := def.Damage * tower.stats.DamageMultiplier * shrineBoost

		critChance := tower.stats.CritChanceBonus + def.CritChance
		if s.combatRNG.Float64() < critChance {
			critMultiplier := def.CritMultiplier
			if critMultiplier == 0 {
				critMultiplier = 2
			}
			damage *= critMultiplier
		}

		if target.armor > 0 {
			damage *= 1 - target.armor
		}

		s.addProjectile(tower.X, tower.Y, target.ID, damage, 8, tower.Type, tower.OwnerID, def.Color)

		switch tower.Type {
		case catalog.TowerFrost:
			target.slowedUntil = now + def.SlowDuration
		case catalog.TowerTesla:
			target.stunnedUntil = now + def.StunDuration
		case catalog.TowerDragon:
			target.burnDamage = def.BurnDamage
			target.burnUntil = now + def.BurnDuration
		}

		if tower.Type == catalog.TowerWizard && def.ChainCount > 1 {
			lastTarget := target
			for c := 1; c < def.ChainCount; c++ {
				chainTarget := s.nearestEnemy(lastTarget.X, lastTarget.Y, 100, func(e *enemyState) bool {
					return e.ID != lastTarget.ID
				})
				if chainTarget == nil {
					break
				}
				s.addProjectile(lastTarget.X, lastTarget.Y, chainTarget.ID, damage*0.7, 12, chainShot, tower.OwnerID, "#9932CC")
				lastTarget = chainTarget
			}
		}
	}
}

// nearestEnemy returns the eligible enemy strictly closer than maxDist to
// (x, y), or nil.
func (s *Session) nearestEnemy(x, y, maxDist float64, eligible func(*enemyState) bool) *enemyState {
	var nearest *enemyState
	closest := maxDist
	for _, enemy := range s.enemies {
		if eligible != nil && !eligible(enemy) {
			continue
		}
		dist := math.Hypot(enemy.X-x, enemy.Y-y)
		if dist < closest {
			closest = dist
			nearest = enemy
		}
	}
	return nearest
}

func (s *Session) addProjectile(x, y float64, targetID string, damage, speed float64, kind catalog.TowerType, ownerID, color string) {
	s.nextProjectileID++
	s.projectiles = append(s.projectiles, &projectileState{
		Projectile: Projectile{
			ID:       fmt.Sprintf("proj-%d", s.nextProjectileID),
			X:        x,
			Y:        y,
			TargetID: targetID,
			Color:    color,
		},
		damage:  damage,
		speed:   speed,
		kind:    kind,
		ownerID: ownerID,
	})
}

// advanceProjectiles moves shots a fixed per-tick step toward their target
// and resolves impacts. Projectile speed is deliberately not delta-scaled.
func (s *Session) advanceProjectiles(now int64) {
	live := s.projectiles[:0]
	for _, proj := range s.projectiles {
		target := s.enemyByID(proj.TargetID)
		if target == nil {
			continue
		}

		dx := target.X - proj.X
		dy := target.Y - proj.Y
		dist := math.Hypot(dx, dy)

		if dist >= proj.speed*2 {
			proj.X += (dx / dist) * proj.speed
			proj.Y += (dy / dist) * proj.speed
			live = append(live, proj)
			continue
		}

		target.Health -= proj.damage

		if proj.kind == catalog.TowerMortar {
			if mortarDef, ok := s.catalog.Tower(catalog.TowerMortar); ok {
				for _, other := range s.enemies {
					if other.ID == target.ID {
						continue
					}
					if math.Hypot(other.X-target.X, other.Y-target.Y) <= mortarDef.SplashRadius {
						other.Health -= proj.damage * 0.5
					}
				}
			}
		}

		owner := s.players[proj.ownerID]
		if owner != nil {
			owner.damageDealt += proj.damage
		}

		if target.Health <= 0 && owner != nil {
			s.creditKill(owner, target, proj)
		}
	}
	for i := len(live); i < len(s.projectiles); i++ {
		s.projectiles[i] = nil
	}
	s.projectiles = live
}

func (s *Session) creditKill(owner *playerState, target *enemyState, proj *projectileState) {
	killBonus := int(float64(target.reward) * owner.stats.KillBonusMultiplier)
	owner.Gold += killBonus
	owner.enemiesKilled++
	owner.Score += target.reward

	if proj.kind == catalog.TowerNecromancer {
		if necroDef, ok := s.catalog.Tower(catalog.TowerNecromancer); ok && s.combatRNG.Float64() < necroDef.SkeletonChance {
			s.nextTroopID++
			s.troops = append(s.troops, &troopState{
				Troop: Troop{
					ID:     fmt.Sprintf("troop-%d", s.nextTroopID),
					X:      target.X,
					Y:      target.Y,
					Health: 30,
					Type:   troopTypeSkeleton,
				},
				damage:  10,
				ownerID: proj.ownerID,
			})
		}
	}

	combatlog.EnemyKilled(context.Background(), s.pub, s.id, s.tick,
		logging.EntityRef{ID: owner.ID, Kind: logging.EntityKindPlayer},
		logging.EntityRef{ID: target.ID, Kind: logging.EntityKindEnemy},
		combatlog.EnemyKilledPayload{EnemyType: string(target.Type), Reward: killBonus})
}

func (s *Session) enemyByID(id string) *enemyState {
	for _, enemy := range s.enemies {
		if enemy.ID == id {
			return enemy
		}
	}
	return nil
}

// advanceTroops walks friendly units toward the nearest enemy and trades
// blows in melee. Troops wear down as they fight and are swept at zero
// health.
func (s *Session) advanceTroops(dt float64) {
	live := s.troops[:0]
	for _, troop := range s.troops {
		target := s.nearestEnemy(troop.X, troop.Y, 200, nil)
		if target != nil {
			dx := target.X - troop.X
			dy := target.Y - troop.Y
			dist := math.Hypot(dx, dy)
			if dist < 20 {
				target.Health -= troop.damage * (dt / 500)
				troop.Health -= 2 * (dt / 500)
			} else if dist > 0 {
				troop.X += (dx / dist) * 2
				troop.Y += (dy / dist) * 2
			}
		}
		if troop.Health <= 0 {
			continue
		}
		live = append(live, troop)
	}
	for i := len(live); i < len(s.troops); i++ {
		s.troops[i] = nil
	}
	s.troops = live
}
