package events

import (
	"context"
	"encoding/json"
	"log/slog"

	libnats "github.com/nats-io/nats.go"

	"inkfeed/internal/nats"
)

// Engagement event subjects. Subjects live under the "inkfeed." stream
// prefix.
const (
	SubjectPostCreated    = "inkfeed.post.created"
	SubjectPostLiked      = "inkfeed.post.liked"
	SubjectPostBookmarked = "inkfeed.post.bookmarked"
	SubjectUserFollowed   = "inkfeed.user.followed"
)

// Publisher emits engagement events to JetStream. The Nats-Msg-Id header
// carries a deterministic id so redeliveries deduplicate server-side.
type Publisher struct {
	Logger *slog.Logger
	NATS   *nats.NATS
}

func (p *Publisher) Init(_ context.Context) error {
	p.Logger = p.Logger.With("component", "events.Publisher")
	return nil
}

func (p *Publisher) Publish(ctx context.Context, subject, msgID string, payload any) error {
	bytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &libnats.Msg{
		Subject: subject,
		Data:    bytes,
		Header: libnats.Header{
			libnats.MsgIdHdr: []string{msgID},
		},
	}

	_, err = p.NATS.JS.PublishMsg(ctx, msg)
	if err != nil {
		return err
	}

	p.Logger.Debug("published event", "subject", subject, "id", msgID)
	return nil
}
