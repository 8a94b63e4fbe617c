// recorder_bridge.go — translates the engine/bridge event sum type into the
// Capture Session's per-channel methods. This is the Session Controller's
// fan-out-to-recorder half of spec §4.6's "(a) forwards REST request/response
// events into the session recorder"; ws:frame and cdp:initiator are
// diagnostic-only and reach the inspector but not the on-disk archive.
package session

import (
	"github.com/brennhill/netcapture/internal/recorder"
	"github.com/brennhill/netcapture/internal/types"
)

func forwardToRecorder(rec *recorder.Recorder, ev types.Event) {
	switch ev.Channel {
	case types.ChannelRESTRequest:
		p := ev.Payload.(types.RESTRequestPayload)
		rec.OnRESTRequest(p.Method, p.URL, p.ReqHeaders, p.Ts, p.ReqBody, p.ReqHeaders["content-type"])
	case types.ChannelRESTResponse:
		p := ev.Payload.(types.RESTResponsePayload)
		rec.OnRESTResponse(recorder.RESTResponseInput{
			Method:     p.Method,
			URL:        p.URL,
			Status:     p.Status,
			StatusText: p.StatusText,
			Headers:    p.ResHeaders,
			BodySize:   p.BodySize,
			StartTs:    p.Ts - p.TimingMs,
			EndTs:      p.Ts,
		})
	case types.ChannelWSOpen, types.ChannelWSMessage, types.ChannelWSClose, types.ChannelWSError:
		rec.OnWSEvent(ev.Payload.(types.WSEventPayload))
	case types.ChannelRESTTxn:
		rec.PushTxnNDJSON(ev.Payload.(*types.CapturedTransaction))
	}
}
