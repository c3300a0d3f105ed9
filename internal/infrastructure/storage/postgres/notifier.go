package postgres

import (
	"context"
	"encoding/json"

	"stockview/internal/domain"
	"stockview/pkg/logger"
)

// ChangeNotifier publishes change scopes with pg_notify, so every instance
// listening on the channel can invalidate its cached views.
type ChangeNotifier struct {
	txm     *TxManager
	channel string
}

var _ domain.ChangeNotifier = (*ChangeNotifier)(nil)

// NewChangeNotifier creates a notifier publishing on channel.
func NewChangeNotifier(txm *TxManager, channel string) *ChangeNotifier {
	return &ChangeNotifier{txm: txm, channel: channel}
}

// NotifyChange implements domain.ChangeNotifier.
func (n *ChangeNotifier) NotifyChange(ctx context.Context, scope domain.ChangeScope) {
	payload, err := json.Marshal(scope)
	if err != nil {
		logger.Error(ctx, "failed to encode change scope", "error", err)
		return
	}

	if _, err := n.txm.GetQuerier(ctx).Exec(ctx, "SELECT pg_notify($1, $2)", n.channel, string(payload)); err != nil {
		logger.Warn(ctx, "failed to publish change notification",
			"channel", n.channel,
			"kind", scope.Kind,
			"error", err,
		)
	}
}
