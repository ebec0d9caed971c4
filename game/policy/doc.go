// Package policy decides for automated seats.
//
// Every decision is a pure function of value copies read from the engine
// and a Strategy tag. The functions never mutate game state; the service
// applies their answers through ordinary engine operations.
package policy
