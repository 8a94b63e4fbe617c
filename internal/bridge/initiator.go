// initiator.go — redirect chain and initiator tracking for request-will-be-sent
// messages (spec §4.5, emitted as cdp:initiator).
package bridge

import (
	"time"

	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/types"
)

// initiatorState accumulates the redirect chain for one request id across
// however many request-will-be-sent notifications the host delivers for it
// (one per hop, per CDP convention).
type initiatorState struct {
	url       string
	chain     []types.RedirectHop
	initiator *types.Initiator
	touchedAt time.Time
}

func (b *Bridge) handleRequestWillBeSent(msg *host.RequestWillBeSentMessage) {
	b.mu.Lock()
	st, ok := b.initiators[msg.RequestID]
	if !ok {
		st = &initiatorState{}
		b.initiators[msg.RequestID] = st
	}
	st.url = msg.URL
	st.touchedAt = time.Now()
	if msg.HasRedirect {
		st.chain = append(st.chain, types.RedirectHop{
			From:   msg.RedirectFrom,
			To:     msg.URL,
			Status: msg.RedirectStatus,
		})
	}
	if msg.Initiator != nil {
		st.initiator = &types.Initiator{Type: msg.Initiator.Type, URL: msg.Initiator.URL}
	}

	payload := types.CDPInitiatorPayload{
		RequestID:     msg.RequestID,
		URL:           st.url,
		RedirectChain: append([]types.RedirectHop(nil), st.chain...),
		Initiator:     st.initiator,
	}
	b.mu.Unlock()

	b.emit(types.ChannelCDPInitiator, payload)
}
