package handler

type NoRelayChannelError struct{}

func (m *NoRelayChannelError) Error() string {
	return "no relay channel configured"
}
