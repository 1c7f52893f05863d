// Package compositor multiplexes independent pixel buffers (layers) onto one
// framebuffer.
//
// Each displayed layer has a stacking index z; indices 0..ZMax are dense and
// map one-to-one onto displayed layers. A per-pixel ownership map records
// which layer supplies the visible color of every screen pixel, so a change
// only repaints the pixels whose owner changed inside the damaged rectangle
// and z-range.
//
// Locking: every exported method takes a kernel.SpinLock. The lock never
// parks, so code running in interrupt context (tick, keyboard and pointer
// handlers) must not call into a Compositor while the main loop may hold the
// lock: on a single core the handler would spin forever. Handlers post a
// message to the main loop instead; see desktop.
//
// Misuse (an unallocated LayerID, a buffer smaller than its declared
// geometry, a z-range outside the stack) panics. Only Alloc reports a
// recoverable error.
package compositor
