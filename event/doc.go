// Package event models the input a host surface delivers to a canvas and
// buffers it until the frame thread is ready to consume it.
//
// Hosts translate their native input (ebiten polling, tcell events, test
// fixtures) into [Event] values and [Queue.Post] them from any goroutine.
// Handlers registered with [Queue.Listen] run only inside [Queue.Dispatch],
// which the canvas calls at frame start. This keeps every mutation of
// frame-read state on one logical thread without locks in the plugins.
package event
