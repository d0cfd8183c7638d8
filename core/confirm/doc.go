// Package confirm implements the "may I leave?" protocol that runs before a navigation tears
// down the displayed screen tree.
//
// Every party is handed its own Handle and must answer exactly once, either inline from MayStop
// or later from any goroutine:
//
//	type editor struct{ dirty bool }
//
//	func (e *editor) MayStop(h confirm.Handle) {
//		if e.dirty {
//			h.AbortRouting()
//			return
//		}
//		h.ContinueRouting()
//	}
//
// The gate resolves once: confirmed when all parties continued, aborted as soon as one party
// aborts. Answers arriving after resolution are ignored.
package confirm
