// Package ledgergrp maintains the group of handlers for ledger access.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/voteguard/ledger/business/web/errs"
	"github.com/voteguard/ledger/foundation/events"
	"github.com/voteguard/ledger/foundation/ledger/block"
	"github.com/voteguard/ledger/foundation/ledger/chain"
	"github.com/voteguard/ledger/foundation/ledger/pow"
	"github.com/voteguard/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Chain *chain.Chain
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Submit seals a caller payload into a new block at the tail of the chain.
// The chain serializes appends internally, so at most one mining operation
// is in flight at any time.
func (h Handlers) Submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nr newRecord
	if err := web.Decode(r, &nr); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("submit record", "traceid", v.TraceID, "data", nr.Data)

	b, err := h.Chain.Append(block.Payload(nr.Data))
	if err != nil {
		if errors.Is(err, pow.ErrMiningTimeout) {
			return errs.NewTrusted(fmt.Errorf("sealing record failed, retry: %w", err), http.StatusServiceUnavailable)
		}
		return fmt.Errorf("append failed: %w", err)
	}

	h.Evts.Send(events.Event{
		Kind:  events.KindBlockSealed,
		Index: b.Index,
		Hash:  b.Hash,
	})

	return web.Respond(ctx, w, toBlockResult(b), http.StatusCreated)
}

// QueryBlocks returns the full block sequence in chain order.
func (h Handlers) QueryBlocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlockResults(h.Chain.Blocks()), http.StatusOK)
}

// QueryLatest returns the tail block of the chain.
func (h Handlers) QueryLatest(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	b, ok := h.Chain.Latest()
	if !ok {
		return errs.NewTrusted(errors.New("chain has no blocks"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlockResult(b), http.StatusOK)
}

// SearchBlocks returns the blocks whose payload contains every query
// parameter with an exactly matching value.
func (h Handlers) SearchBlocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	criteria := block.Payload{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			criteria[key] = values[0]
		}
	}

	if len(criteria) == 0 {
		return errs.NewTrusted(errors.New("at least one search criterion is required"), http.StatusBadRequest)
	}

	return web.Respond(ctx, w, toBlockResults(h.Chain.Search(criteria)), http.StatusOK)
}

// ValidateChain runs the full-chain scan and reports the result.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	result := struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason,omitempty"`
	}{
		Valid: true,
	}

	if err := h.Chain.Validate(); err != nil {
		result.Valid = false
		result.Reason = err.Error()
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}

// QueryInfo returns a summary of the chain's current state.
func (h Handlers) QueryInfo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Chain.Info(), http.StatusOK)
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("events", "traceid", v.TraceID, "status", "websocket open")
	defer h.Log.Infow("events", "traceid", v.TraceID, "status", "websocket closed")

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(ev); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
