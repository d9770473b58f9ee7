// Package workers runs the gateway's background processes. Today that is a
// single credential health sweep, but the Worker interface and the Workers
// aggregate keep startup wiring uniform should more appear.
package workers

// Worker is one background process. Run starts it and is expected to
// return quickly, spawning goroutines internally for long-lived work;
// the sweep worker, for example, launches its ticker loop and returns.
type Worker interface {
	Run()
}
