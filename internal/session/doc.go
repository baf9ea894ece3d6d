// Package session holds the prediction/tips state machine.
//
// A Machine owns the single piece of shared state, the current prediction,
// and the visible regions derived from it (result panel, tips panel, tips
// list, loader, notice). It never performs I/O itself: user actions return
// an Effect, which the caller runs off the UI loop, and the Outcome of that
// Effect is fed back through Apply.
//
//	m := session.NewMachine(client)
//	eff := m.Submit(payload)    // Idle -> PredictionPending
//	m.Apply(eff(ctx))           // -> PredictionShown or PredictionFailed
//	eff, err := m.RequestTips() // guarded: needs a stored prediction
//
// # Concurrency
//
// Machine is not safe for concurrent use. All calls, including Apply, must
// happen on one loop: the Bubble Tea update function, or the goroutine that
// owns a Loop. Effects may run concurrently and complete in any order; the
// outcome applied last wins. Outcomes of superseded requests are still
// applied and are logged at debug level.
package session
