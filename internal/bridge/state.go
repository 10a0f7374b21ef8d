package bridge

// Status is the connection lifecycle phase of the event channel.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// ConnectionState is what the UI renders as passive status text. LastError
// holds a generic transport message; it is cleared on a successful open
// and stays empty while the client sits idle with no endpoint.
type ConnectionState struct {
	Status    Status
	LastError string
}
