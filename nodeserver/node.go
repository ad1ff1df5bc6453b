// Package nodeserver is a minimal node: it publishes its identity, accepts
// signed control envelopes on its entrypoint and answers with signed events.
package nodeserver

import (
	"context"
	"net/http"

	"fiatjaf.com/nostrnode"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const defaultMaxEnvelopeSize = 512000

// NewNode creates a node that signs its responses with secretKey.
func NewNode(secretKey nostrnode.SecretKey) (*Node, error) {
	if err := secretKey.Check(); err != nil {
		return nil, err
	}

	n := &Node{
		secretKey: secretKey,
		PublicKey: secretKey.Public(),

		Logger: nostrnode.Logger.With().Str("component", "nodeserver").Logger(),
		Now:    nostrnode.Now,

		MaxEnvelopeSize: defaultMaxEnvelopeSize,

		store: newMemoryStore(),
	}

	n.commands = map[string]CommandHandler{
		nostrnode.CommandPublishEvent: n.handlePublishEvent,
		nostrnode.CommandGetEvent:     n.handleGetEvent,
	}

	n.serveMux = http.NewServeMux()
	n.serveMux.HandleFunc("GET /identity", n.HandleIdentity)
	n.serveMux.HandleFunc("POST /entrypoint", n.HandleEntrypoint)
	n.router = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler(n.serveMux)

	return n, nil
}

// CommandHandler handles one command. It receives the verified envelope and
// returns the content of the response; an error becomes a 400.
type CommandHandler func(ctx context.Context, envelope nostrnode.Event) (nostrnode.Ack, error)

type Node struct {
	secretKey nostrnode.SecretKey
	PublicKey nostrnode.PubKey

	// serve the identity as an npub instead of hex
	ServeNpub bool

	// hooks that will be called at various times
	OnEnvelope   func(ctx context.Context, envelope nostrnode.Event) (reject bool, msg string)
	OnEvent      func(ctx context.Context, event nostrnode.Event) (reject bool, msg string)
	OnEventSaved func(ctx context.Context, event nostrnode.Event)

	Logger zerolog.Logger
	Now    func() nostrnode.Timestamp

	// envelopes larger than this are refused before parsing
	MaxEnvelopeSize int64

	store    *memoryStore
	commands map[string]CommandHandler
	serveMux *http.ServeMux
	router   http.Handler
}

// Handle registers (or replaces) the handler for a command.
func (n *Node) Handle(command string, handler CommandHandler) {
	n.commands[command] = handler
}

// Router returns the http.Handler for the node, with permissive CORS so
// browser clients can talk to it.
func (n *Node) Router() http.Handler { return n.router }

func (n *Node) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.router.ServeHTTP(w, r)
}

// Lookup returns the latest stored event for a replaceable or addressable slot,
// or the event itself for regular kinds when d is its id.
func (n *Node) Lookup(author nostrnode.PubKey, kind nostrnode.Kind, d string) (nostrnode.Event, bool) {
	return n.store.get(slotKey(author, kind, d))
}
