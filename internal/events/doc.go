// Package events provides change notification for the session engine.
//
// The engine groups field writes into batches; observers receive one
// consistent post-state event per outermost batch rather than partial
// intermediate states. Handlers are registered against an emitter and the
// engine publishes without knowing who listens, keeping the UI/CLI layer
// decoupled from the scheduling core.
//
// The primary components are:
// - StateChange: a snapshot of the session after a batch of mutations
// - Handler: interface for components that consume state changes
// - Emitter: interface for components that publish them
package events
