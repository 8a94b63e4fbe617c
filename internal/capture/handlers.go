// handlers.go — the five ordered lifecycle callbacks (spec §4.4).
package capture

import (
	"net/url"
	"strings"
	"time"

	"github.com/brennhill/netcapture/internal/host"
	"github.com/brennhill/netcapture/internal/logging"
	"github.com/brennhill/netcapture/internal/tokenutil"
	"github.com/brennhill/netcapture/internal/types"
)

// handlePreRequest is step 1: assigns startTs, builds a CapturedRequest,
// registers it with the aggregator, emits rest:request.
func (c *Capture) handlePreRequest(ev host.PreRequestEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return
	}

	hostName, path := splitHostPath(ev.URL)
	method := normalizeMethod(ev.Method)

	req := types.CapturedRequest{
		ID:          ev.ID,
		Method:      method,
		URL:         ev.URL,
		Host:        hostName,
		Path:        path,
		Timing:      types.Timing{StartTs: ev.Ts},
		Body:        ev.Body,
		BodyPreview: previewUTF8(ev.Body, maxBodyPreviewBytes),
	}
	if u, err := url.Parse(ev.URL); err == nil {
		req.Query = flattenQuery(u.Query())
	}
	if rec, ok := c.consumePreflight(hostName, path, method, ev.Ts); ok {
		req.CORS = &types.CORSInfo{Preflight: true, Origin: rec.Origin}
	}

	c.states[ev.ID] = &requestState{phase: phaseOpen, req: req}
	c.aggregator.OnRequest(req)

	c.emit(types.ChannelRESTRequest, types.RESTRequestPayload{
		Ts: ev.Ts, URL: ev.URL, Method: method, ReqBody: req.BodyPreview,
	})
}

// ensureState returns the per-id state, synthesizing one with a zeroed
// start timestamp if pre-request was never observed for this id (spec §4.4
// "Out-of-order events are accepted").
func (c *Capture) ensureState(id string) *requestState {
	st, ok := c.states[id]
	if ok {
		return st
	}
	req := types.CapturedRequest{ID: id, Method: "GET", Timing: types.Timing{StartTs: 0}}
	st = &requestState{phase: phaseOpen, req: req}
	c.states[id] = st
	c.aggregator.OnRequest(req)
	return st
}

// handlePreSendHeaders is step 2: filters headers, records pre-flights,
// detects bearer tokens, emits rest:before-send-headers.
func (c *Capture) handlePreSendHeaders(ev host.PreSendHeadersEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return
	}

	st := c.ensureState(ev.ID)
	headers := lowerHeaders(ev.Headers)
	filtered := filterRequestHeaders(headers, c.redactor.Enabled())
	st.req.Headers = filtered
	st.phase = phaseSent

	if strings.EqualFold(st.req.Method, "OPTIONS") {
		if acrm := headers["access-control-request-method"]; acrm != "" {
			c.recordPreflight(st.req.Host, st.req.Path, acrm, headers["origin"], ev.Ts)
		}
	}

	if auth := headers["authorization"]; auth != "" {
		if tok, found := tokenutil.FindBearerToken(auth); found {
			headerMap, payloadMap := tokenutil.DecodeBearerToken(tok)
			tokenOut := tok
			if c.redactor.Enabled() {
				tokenOut = tokenutil.RedactBearerToken(tok)
			}
			jwt := &types.JWTInfo{Token: tokenOut, Header: headerMap, Payload: payloadMap}
			st.req.JWT = jwt
			c.aggregator.PatchRequestToken(ev.ID, jwt)
		}
	}

	c.emit(types.ChannelRESTBeforeSendHeaders, types.RESTRequestPayload{
		Ts: ev.Ts, URL: st.req.URL, Method: st.req.Method, ReqHeaders: filtered, ReqBody: st.req.BodyPreview,
	})
}

// handleHeadersReceived is step 3: stores the raw (lowercased) response
// headers and status for the completed handler, which filters them, and
// wires the body tap. Set-Cookie lines arrive later, on the completed event.
func (c *Capture) handleHeadersReceived(ev host.HeadersReceivedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return
	}

	st := c.ensureState(ev.ID)
	st.respHeadersRaw = lowerHeaders(ev.Headers)
	st.status = ev.Status
	st.statusText = ev.StatusText
	st.phase = phaseHeaders

	if ev.Tap != nil {
		c.wireBodyTap(ev.ID, ev.Tap)
	}
}

// wireBodyTap registers data and error listeners on tap that clone bytes
// into the per-id accumulator and stamp firstByteTs once, on the first
// chunk (spec §4.4 "Response body tap"). The tap is pass-through by
// construction: these listeners only observe, they never alter what the
// host forwards.
func (c *Capture) wireBodyTap(id string, tap host.BodyTap) {
	tap.OnData(func(chunk []byte) {
		c.mu.Lock()
		defer c.mu.Unlock()
		st, ok := c.states[id]
		if !ok {
			return
		}
		if st.firstByteTs == 0 {
			st.firstByteTs = time.Now().UnixMilli()
		}
		st.accum = append(st.accum, chunk...)
		st.phase = phaseStreaming
	})
	tap.OnError(func(err error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.logger.Warn("body tap error", logging.String("id", id), logging.Error(err))
	})
}

// handleCompleted is step 4: stops the tap (implicitly, by reading the
// accumulator), content-decodes, assembles the CapturedResponse, parses
// cookies and CORS-allow, optionally persists the body, emits rest:response
// and rest:txn, and clears per-id state.
func (c *Capture) handleCompleted(ev host.CompletedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return
	}

	st := c.ensureState(ev.ID)
	defer delete(c.states, ev.ID)

	decoded, err := decodeContentEncoding(st.accum, ev.ContentEncoding)
	if err != nil {
		c.metrics.DecodeFailures.WithLabelValues(ev.ContentEncoding).Inc()
		c.logger.Warn("content decode failed", logging.String("id", ev.ID), logging.Error(err))
		decoded = st.accum
	}

	contentType := st.respHeadersRaw["content-type"]
	corsAllow := extractCORSAllow(st.respHeadersRaw)

	cookies := make([]types.Cookie, 0, len(ev.SetCookies))
	for _, line := range ev.SetCookies {
		cookies = append(cookies, parseSetCookie(line, c.redactor))
	}

	var savedPath string
	if c.persister != nil && c.persister.ShouldPersistBody(len(decoded), contentType) {
		desc, err := c.persister.SaveBody(ev.ID, decoded, contentType)
		if err != nil {
			c.metrics.PersistFailures.Inc()
			c.logger.Warn("body persist failed", logging.Error(err))
		} else {
			savedPath = desc.Path
			c.persister.NoteResponseBody(st.req.Method, st.req.URL, desc)
		}
	}

	endTs := ev.EndTs
	timing := types.Timing{StartTs: st.req.Timing.StartTs, EndTs: &endTs}
	if st.firstByteTs != 0 {
		fb := st.firstByteTs
		timing.FirstByteTs = &fb
	}

	resp := types.CapturedResponse{
		ID:          ev.ID,
		Status:      st.status,
		StatusText:  st.statusText,
		Headers:     filterResponseHeaders(st.respHeadersRaw, c.redactor.Enabled()),
		ContentType: contentType,
		BodySize:    len(decoded),
		Body:        decoded,
		BodyPreview: previewUTF8(decoded, maxBodyPreviewBytes),
		Timing:      timing,
		CORSAllow:   corsAllow,
		SetCookies:  cookies,
		SavedPath:   savedPath,
	}

	txn, _ := c.aggregator.OnResponse(resp)
	c.metrics.BytesCaptured.Add(float64(len(decoded)))

	timingMs := endTs - st.req.Timing.StartTs
	if timingMs < 0 {
		timingMs = 0
	}
	c.emit(types.ChannelRESTResponse, types.RESTResponsePayload{
		Ts: endTs, URL: st.req.URL, Method: st.req.Method,
		Status: resp.Status, StatusText: resp.StatusText,
		ResHeaders: resp.Headers, BodySize: resp.BodySize, TimingMs: timingMs,
	})
	if txn != nil {
		c.emit(types.ChannelRESTTxn, txn)
	}
}

// handleErrorOccurred is step 5: emits rest:error with whatever context is
// available and drops per-id state. No terminal transaction is emitted —
// an errored exchange never produces a rest:txn.
func (c *Capture) handleErrorOccurred(ev host.ErrorEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return
	}

	st := c.ensureState(ev.ID)
	delete(c.states, ev.ID)

	c.emit(types.ChannelRESTError, types.RESTErrorPayload{
		Ts: ev.EndTs, URL: st.req.URL, Method: st.req.Method,
		ReqHeaders: st.req.Headers, Reason: ev.Message,
	})
}
