// Package event provides a pub-sub event bus that decouples the orchestrator
// from whatever displays its progress.
//
// The orchestrator publishes events as a run advances; the progress display
// subscribes to them. Neither knows about the other.
//
// # Main Types
//
//   - [Event]: Interface that all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Events
//
//   - [PhaseChangedEvent] ("run.phase"): the orchestrator entered a new state
//   - [TaskStartedEvent] ("task.started"): a task is about to run
//   - [TaskFinishedEvent] ("task.finished"): a task's outcome was recorded
//
// # Thread Safety
//
// Subscribe, Unsubscribe and Publish may be called from any goroutine.
// Handlers run synchronously on the publisher's goroutine. Parallel tasks
// publish concurrently, so handlers must guard their own state.
//
// # Example
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeTaskFinished, func(e event.Event) {
//	    done := e.(event.TaskFinishedEvent)
//	    fmt.Println(done.Label, done.Succeeded)
//	})
package event
