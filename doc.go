// Package nqdm decorates iteration with a live, single-line terminal
// progress bar.
//
// A progress bar is built from one of four source shapes: an explicit item
// count, a sequence (slice, iter.Seq, channel or pull iterator), a function
// invoked once per element, or nothing at all. Every pull renders
//
//	 50.00% [======================>                      ] 00:00:10 00:00:10 [5.00 iter/sec]
//
// prefixed with a carriage return so successive lines overwrite each other,
// and then hands back the wrapped value untouched.
//
//	for i := range nqdm.Count(1000, nqdm.WithDestination(nqdm.Stderr)).All() {
//		work(i)
//	}
//
// Everything happens synchronously inside the caller's pull: there are no
// goroutines, timers or shared state, and two bars used at the same time
// never interfere. Output goes to an injectable Sink; with no destination
// and no sink configured nothing is written, while callbacks still run.
package nqdm
