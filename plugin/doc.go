// Package plugin provides the stock canvas plugins: pointer tracking,
// pan/zoom viewport control and fullscreen sizing.
//
// Registration order matters. Register the Pointer before the Viewport so
// that its BeforeDraw computes the frame's pointer delta before the viewport
// consumes it:
//
//	c.AddPlugin(plugin.NewPointer())
//	c.AddPlugin(plugin.NewViewport(plugin.WithSensitivity(1.5)))
//
// Plugins find each other by ID during Init and keep the reference for the
// canvas lifetime. A Viewport without a Pointer logs an error and stays
// inert; a Pointer without a Viewport reports screen-space coordinates.
package plugin
