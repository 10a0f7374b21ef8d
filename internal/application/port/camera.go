package port

import "context"

// CameraFeed is the camera subsystem boundary. The core allocates it
// screen space and starts/stops it; device enumeration, formats and the
// video sink itself stay on the other side.
type CameraFeed interface {
	// Start begins streaming, preferring the given device hint when one
	// is configured. An empty hint picks the platform default.
	Start(ctx context.Context, deviceHint string) error

	// Stop ends the stream. Safe to call when not streaming.
	Stop(ctx context.Context) error
}
