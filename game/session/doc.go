// Package session holds the active game.
//
// Only one game runs at a time. Manager.Start builds a fresh engine for a
// configuration, assigns it a UUID and replaces whatever game was active.
// Every engine event is recorded on the returned service.Session in
// emission order, so drivers can page through the history later.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Start(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Later, from any goroutine
//	sess, err = manager.Current()
//
// State lives in memory only and ends with the process.
package session
