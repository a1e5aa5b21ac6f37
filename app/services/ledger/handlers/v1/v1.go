// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/voteguard/ledger/app/services/ledger/handlers/v1/ledgergrp"
	"github.com/voteguard/ledger/foundation/events"
	"github.com/voteguard/ledger/foundation/ledger/chain"
	"github.com/voteguard/ledger/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	Chain *chain.Chain
	Evts  *events.Events
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	lgh := ledgergrp.Handlers{
		Log:   cfg.Log,
		Chain: cfg.Chain,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodPost, version, "/records/add", lgh.Submit)
	app.Handle(http.MethodGet, version, "/blocks/list", lgh.QueryBlocks)
	app.Handle(http.MethodGet, version, "/blocks/latest", lgh.QueryLatest)
	app.Handle(http.MethodGet, version, "/blocks/search", lgh.SearchBlocks)
	app.Handle(http.MethodGet, version, "/chain/validate", lgh.ValidateChain)
	app.Handle(http.MethodGet, version, "/chain/info", lgh.QueryInfo)
	app.Handle(http.MethodGet, version, "/events", lgh.Events)
}
