// Package keyword centralizes the authoritative semantics for each
// keyword: Eternal, Defender, Gigantic, Seasoned, Tough X, Cooldown,
// Scout X, Fleeting, Anchored, Asleep,
// Boosted, Exhausted. The Turn Scheduler, the Arena and the engine
// facade call into these predicates; the Mana system and the Card-Play
// Pipeline read the derived characteristics fields directly.
package keyword

import (
	"expedition-engine/internal/object"
	"expedition-engine/internal/zone"
)

// IsEternal reports the Eternal keyword: not sent to Reserve during
// Rest; stays in Expedition.
func IsEternal(o *object.GameObject) bool { return o.Current.IsEternal }

// HasDefender reports the Defender keyword on o itself (not accounting
// for Gigantic's dual-expedition spread — callers use EffectiveSides for
// that).
func HasDefender(o *object.GameObject) bool { return o.Current.HasDefender }

// IsGigantic reports the Gigantic keyword.
func IsGigantic(o *object.GameObject) bool { return o.Current.IsGigantic }

// IsSeasoned reports the Seasoned keyword.
func IsSeasoned(o *object.GameObject) bool { return o.Current.IsSeasoned }

// ToughX returns the object's Tough X value, or 0 if it isn't Tough.
func ToughX(o *object.GameObject) int { return o.Current.IsToughX }

// IsFleeting reports the effective Fleeting state: either granted ad hoc
// by the Card-Play Pipeline (played from Reserve) or by a passive
// ability from the card's own definition.
func IsFleeting(o *object.GameObject) bool {
	return o.HasStatus(object.StatusFleeting) || o.Current.IsFleeting
}

// IsAnchored reports the Anchored status.
func IsAnchored(o *object.GameObject) bool { return o.HasStatus(object.StatusAnchored) }

// IsAsleep reports the Asleep status.
func IsAsleep(o *object.GameObject) bool { return o.HasStatus(object.StatusAsleep) }

// IsBoosted reports the derived Boosted keyword: present iff the object
// carries at least one Boost counter.
func IsBoosted(o *object.GameObject) bool { return o.Counters[object.CounterBoost] > 0 }

// HasCooldown reports the Cooldown keyword (spells only): on resolution,
// lands in Reserve with Exhausted instead of Discard/Reserve per default.
func HasCooldown(o *object.GameObject) bool {
	_, ok := o.Current.Keywords["Cooldown"]
	return ok
}

// EffectiveSides returns the expedition side(s) o counts as present in
// for statistic calculation and targeting: both of its
// controller's expeditions if Gigantic, otherwise just its own
// assignment.
func EffectiveSides(o *object.GameObject) []object.ExpeditionSide {
	if IsGigantic(o) {
		return []object.ExpeditionSide{object.ExpeditionHero, object.ExpeditionCompanion}
	}
	if o.ExpeditionAssignment == "" {
		return nil
	}
	return []object.ExpeditionSide{o.ExpeditionAssignment}
}

// RestrictsAdvance reports whether any object in side's roster carries
// Defender, which blocks that expedition from advancing during Progress.
func RestrictsAdvance(roster []*object.GameObject) bool {
	for _, o := range roster {
		if HasDefender(o) {
			return true
		}
	}
	return false
}

// ShouldSkipRest reports whether o stays in its current zone during
// Rest instead of moving to Reserve.
func ShouldSkipRest(o *object.GameObject) bool {
	return IsEternal(o) || IsAnchored(o) || IsAsleep(o)
}

// ClearAsleepAfterRest removes the Asleep status after Rest skips
// sending the object to Reserve.
func ClearAsleepAfterRest(o *object.GameObject) {
	delete(o.Statuses, object.StatusAsleep)
}

// CountsForProgress reports whether o's statistics count toward its
// expedition's advance during Progress: an Asleep character's statistics
// do not count.
func CountsForProgress(o *object.GameObject) bool {
	return !IsAsleep(o)
}

// CarriesBoostOnZoneChange reports whether o's Boost counters should
// survive a move from fromZone to the Reserve.
func CarriesBoostOnZoneChange(o *object.GameObject, fromZone zone.Type, toZone zone.Type) bool {
	if toZone != zone.TypeReserve {
		return false
	}
	if fromZone != zone.TypeExpedition && fromZone != zone.TypeLandmark {
		return false
	}
	return IsSeasoned(o)
}

// ScoutAlternativeCost returns the Scout X alternative play cost carried
// in characteristics, or 0 if the card isn't Scout. Cards declare a
// Scout play by setting Intent.ScoutCost to this value.
func ScoutAlternativeCost(o *object.GameObject) int {
	if v, ok := o.Current.Keywords["Scout"]; ok {
		return v
	}
	return 0
}

// CanSupportFromReserve reports whether a Reserve object can be played
// or offer support abilities: Exhausted objects cannot.
func CanSupportFromReserve(o *object.GameObject) bool {
	return !o.IsExhausted()
}
