package nodeserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/nip19"
	"github.com/tidwall/gjson"
)

func (n *Node) HandleIdentity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if n.ServeNpub {
		io.WriteString(w, nip19.EncodeNpub(n.PublicKey))
	} else {
		io.WriteString(w, n.PublicKey.Hex())
	}
}

func (n *Node) HandleEntrypoint(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, n.MaxEnvelopeSize+1))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > n.MaxEnvelopeSize {
		http.Error(w, "envelope too large", http.StatusRequestEntityTooLarge)
		return
	}

	var envelope nostrnode.Event
	if err := envelope.UnmarshalJSON(body); err != nil {
		http.Error(w, "invalid: failed to decode envelope: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !envelope.Verify() {
		n.Logger.Warn().Str("id", envelope.ID.Hex()).Str("pubkey", envelope.PubKey.Hex()).
			Msg("refusing envelope with bad id or signature")
		http.Error(w, "invalid: bad id or signature", http.StatusBadRequest)
		return
	}

	command, ok := nostrnode.ControlCommandOf(envelope)
	if !ok {
		http.Error(w, "invalid: not a control envelope", http.StatusBadRequest)
		return
	}
	handler, ok := n.commands[command]
	if !ok {
		http.Error(w, "unsupported command "+command, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if nil != n.OnEnvelope {
		if reject, msg := n.OnEnvelope(ctx, envelope); reject {
			if msg == "" {
				msg = "no reason"
			}
			http.Error(w, "blocked: "+msg, http.StatusForbidden)
			return
		}
	}

	ack, err := handler(ctx, envelope)
	if err != nil {
		status := http.StatusBadRequest
		var blocked blockedError
		if errors.As(err, &blocked) {
			status = http.StatusForbidden
		}
		http.Error(w, err.Error(), status)
		return
	}

	ack.Command = command
	n.respond(w, envelope, ack)
}

func (n *Node) respond(w http.ResponseWriter, envelope nostrnode.Event, ack nostrnode.Ack) {
	ack.Envelope = envelope.ID

	content, err := nostrnode.JSON().Marshal(ack)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	response, err := nostrnode.EventTemplate{
		CreatedAt: n.Now(),
		Kind:      nostrnode.KindNodeControl,
		Tags: nostrnode.Tags{
			{"e", envelope.ID.Hex()},
			{"p", envelope.PubKey.Hex()},
		},
		Content: string(content),
	}.Sign(n.secretKey)
	if err != nil {
		n.Logger.Error().Err(err).Msg("failed to sign response")
		http.Error(w, "failed to sign response", http.StatusInternalServerError)
		return
	}

	j, _ := response.MarshalJSON()
	w.Header().Set("Content-Type", "application/json")
	w.Write(j)
}

type blockedError string

func (b blockedError) Error() string { return "blocked: " + string(b) }

func (n *Node) handlePublishEvent(ctx context.Context, envelope nostrnode.Event) (nostrnode.Ack, error) {
	raw := gjson.Get(envelope.Content, "event")
	if !raw.IsObject() {
		return nostrnode.Ack{}, fmt.Errorf("invalid: missing event")
	}

	var evt nostrnode.Event
	if err := evt.UnmarshalJSON([]byte(raw.Raw)); err != nil {
		return nostrnode.Ack{}, fmt.Errorf("invalid: failed to decode event: %w", err)
	}
	if !evt.Verify() {
		return nostrnode.Ack{}, fmt.Errorf("invalid: event has bad id or signature")
	}

	if nil != n.OnEvent {
		if reject, msg := n.OnEvent(ctx, evt); reject {
			if msg == "" {
				msg = "no reason"
			}
			return nostrnode.Ack{}, blockedError(msg)
		}
	}

	ack := nostrnode.Ack{Status: nostrnode.StatusOK, EventID: &evt.ID}
	if evt.Kind.IsEphemeral() {
		return ack, nil
	}

	if !n.store.save(evt) {
		ack.Status = nostrnode.StatusDuplicate
		return ack, nil
	}

	n.Logger.Debug().Str("id", evt.ID.Hex()).Str("kind", evt.Kind.String()).
		Str("author", evt.PubKey.Hex()).Str("relayed_by", envelope.PubKey.Hex()).Msg("event saved")
	if nil != n.OnEventSaved {
		n.OnEventSaved(ctx, evt)
	}
	return ack, nil
}

func (n *Node) handleGetEvent(ctx context.Context, envelope nostrnode.Event) (nostrnode.Ack, error) {
	res := gjson.GetMany(envelope.Content, "author", "kind", "d")

	author, err := nip19.ParsePubKey(res[0].String())
	if err != nil {
		return nostrnode.Ack{}, fmt.Errorf("invalid: bad author: %w", err)
	}
	if res[1].Type != gjson.Number || res[1].Int() < 0 || res[1].Int() > 65535 {
		return nostrnode.Ack{}, fmt.Errorf("invalid: bad kind")
	}

	evt, ok := n.Lookup(author, nostrnode.Kind(res[1].Int()), res[2].String())
	if !ok {
		return nostrnode.Ack{Status: nostrnode.StatusNotFound}, nil
	}
	return nostrnode.Ack{Status: nostrnode.StatusOK, EventID: &evt.ID, Event: &evt}, nil
}
