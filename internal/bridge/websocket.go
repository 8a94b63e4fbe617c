// websocket.go — webSocket-created/-frame handling (spec §4.5, emitted as
// ws:frame). webSocket-created carries the URL the subsequent frame
// notifications lack, so it is cached by request id.
package bridge

import (
	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/types"
)

func (b *Bridge) handleWebSocketCreated(msg *host.WebSocketCreatedMessage) {
	b.mu.Lock()
	b.sockets[msg.RequestID] = msg.URL
	b.mu.Unlock()
}

func (b *Bridge) handleWebSocketFrame(msg *host.WebSocketFrameMessage) {
	b.mu.Lock()
	url := b.sockets[msg.RequestID]
	b.mu.Unlock()

	direction := "in"
	if msg.Sent {
		direction = "out"
	}

	b.emit(types.ChannelWSFrame, types.WSFramePayload{
		Ts:        msg.Ts,
		Direction: direction,
		URL:       url,
		OpCode:    msg.OpCode,
		Data:      msg.Data,
	})
}
