package signaling

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// forward implements spec.md §4.7: try_connect, sdp_offer, sdp_answer and
// ice_candidate all share this path. A locally bound recipient gets the
// envelope pushed directly; otherwise the message is routed across pods
// and the sender waits up to forwardConfirmationTimeout for delivery
// confirmation before reporting target_not_found.
func (s *Session) forward(ctx context.Context, env *SignalingEnvelope) {
	if writer, ok := s.hub.Router.Lookup(env.ToEmail, env.ToDevice); ok {
		writer.Send(env)
		return
	}

	messageID := NewMessageID(env.FromEmail, env.FromDevice, env.ToEmail, env.ToDevice, time.Now().UnixMilli())
	wait, release := s.hub.Pending.Await(messageID)
	defer release()

	err := s.hub.Bus.PublishRouted(ctx, RoutedMessage{
		TargetEmail:   env.ToEmail,
		TargetDevice:  env.ToDevice,
		SocketMessage: *env,
		SenderPod:     s.hub.PodID,
		MessageID:     messageID,
		Timestamp:     time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger().Warn("failed to publish routed message", zap.Error(err))
		s.reply(&SignalingEnvelope{
			Event:        EventError,
			Error:        "Failed to route message - Redis unavailable",
			TargetEmail:  env.ToEmail,
			TargetDevice: env.ToDevice,
		})
		return
	}

	select {
	case <-wait:
		// delivered and confirmed by the receiving pod; nothing more to do.
	case <-time.After(forwardConfirmationTimeout):
		s.reply(&SignalingEnvelope{
			Event:        EventTargetNotFound,
			Error:        NewNotFoundError(env.ToEmail, env.ToDevice).Error(),
			TargetEmail:  env.ToEmail,
			TargetDevice: env.ToDevice,
		})
	case <-ctx.Done():
		// socket closed while awaiting confirmation: release() above already
		// removes the pending entry, nothing to report to a gone client.
	}
}
