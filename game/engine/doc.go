// Package engine provides the core rules of the property-trading board game.
//
// The engine package implements:
//   - The 40-tile board with color groups, railroads and utilities
//   - Chance and community chest decks with reshuffle-on-exhaustion
//   - Participant bookkeeping: money, holdings, jail and doubles counters
//   - The turn state machine, rent, taxes, building and bankruptcy
//   - A synchronous publish/subscribe event bus
//
// Core Types:
//
// The Engine interface defines the contract drivers use, implemented by
// GameEngine. GameState is the deep-copied snapshot handed to presentation
// code, while GameConfig holds the variant rules loaded from JSON files.
//
// Usage:
//
//	config := engine.DefaultGameConfig()
//	game, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := game.Roll()
//	if result.Offer != nil {
//		_ = game.PurchaseProperty(result.PlayerID, result.Offer.PropertyID)
//	}
//	if game.Phase() == engine.PhaseTurnComplete {
//		_ = game.AdvanceTurn()
//	}
//
// Turn Rules:
//
// A roll moves the current participant and resolves the landing tile.
// Doubles grant another roll; a third consecutive double goes to jail.
// Jailed participants escape on doubles, by bail, or with a jail-free card,
// and pay bail automatically after their third failed attempt. Passing GO
// is credited at movement time, before the landing tile is resolved, so a
// card that carries a participant past GO onto Go To Jail keeps the bonus.
// Going to jail itself never credits GO. Any negative balance bankrupts the
// participant immediately; the last solvent participant wins.
//
// Randomness is injected through Source so tests can script dice and shuffles.
// The engine is single-threaded; callers serialize access.
package engine
