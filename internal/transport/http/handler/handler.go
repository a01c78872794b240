// Package handler composes the HTTP handler groups.
package handler

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/provider"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/conversations"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/proxy"
)

// Deps are the services shared by every handler group.
type Deps struct {
	Gateway proxy.Sender
	Router  *provider.Router
	Chat    *chat.Service
	Storage storage.Storage
	Cache   admin.CredentialCache
	Logger  *slog.Logger

	// Stream is the default delivery mode for requests that leave it unset.
	Stream bool
}

// Repo composes all domain-specific handlers.
type Repo struct {
	Admin         *admin.Handlers
	Proxy         *proxy.Handlers
	Conversations *conversations.Handlers
	Infra         *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(deps Deps) *Repo {
	startTime := time.Now()
	return &Repo{
		Admin:         admin.New(deps.Storage, deps.Cache, deps.Router.Registry(), startTime),
		Proxy:         proxy.New(deps.Gateway, deps.Router, deps.Storage, deps.Logger, deps.Stream),
		Conversations: conversations.New(deps.Chat, deps.Storage, deps.Logger, deps.Stream),
		Infra:         infra.New(startTime),
	}
}
