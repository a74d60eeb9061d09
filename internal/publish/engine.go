// Package publish implements the client side of the OPC UA
// subscription keep-alive loop: an Engine that keeps a fixed number of
// PublishRequests outstanding against a session, scales each request's
// timeout hint to how many are in flight, batches acknowledgements
// onto the next outgoing request, and dispatches each arriving
// notification to the callback registered for its subscription.
package publish

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopcua/opcua/ua"
)

// PipelineDepth is the number of PublishRequests each
// RegisterSubscriptionCallback call issues as its initial burst.
const PipelineDepth = 5

// DefaultTimeoutHintMs is the floor timeoutHint applied to every
// PublishRequest before any subscription raises it.
const DefaultTimeoutHintMs = 10000

// NotificationCallback receives the notifications carried by one
// PublishResponse for the subscription it was registered against.
// notificationData is empty for a keep-alive response.
type NotificationCallback func(notificationData []*ua.ExtensionObject, publishTime time.Time)

// Session is the narrow slice of a connected OPC UA client session the
// engine needs: the ability to issue an asynchronous Publish call and
// be told, via callback, when it completes.
type Session interface {
	Publish(ctx context.Context, req *ua.PublishRequest, callback func(*ua.PublishResponse, error))
}

// Engine runs the publish pipeline for one session across all of its
// active subscriptions.
type Engine struct {
	mu sync.Mutex

	session Session

	callbacks               map[uint32]NotificationCallback
	acknowledgementsPending []*ua.SubscriptionAcknowledgement

	timeoutHintMs              uint32
	pendingPublishRequestCount uint32
	terminated                 bool

	// schedule defers issuing the next PublishRequest to its own
	// turn, the way a subscription client defers rather than issuing
	// it synchronously from inside the previous response's handler.
	// Tests substitute a synchronous scheduler for determinism.
	schedule func(func())
}

// NewEngine returns an Engine that issues PublishRequests against
// session.
func NewEngine(session Session) *Engine {
	return &Engine{
		session:       session,
		callbacks:     make(map[uint32]NotificationCallback),
		timeoutHintMs: DefaultTimeoutHintMs,
		schedule:      func(f func()) { go f() },
	}
}

// RegisterSubscriptionCallback starts dispatching notifications for
// subscriptionID to cb, raises the engine's shared timeout hint to
// timeoutHint if it's larger than the current one, and immediately
// pipelines PipelineDepth PublishRequests to compensate for network
// latency, the same burst every register contributes regardless of
// how many other subscriptions are already active.
func (e *Engine) RegisterSubscriptionCallback(subscriptionID uint32, timeoutHint uint32, cb NotificationCallback) error {
	e.mu.Lock()
	if _, exists := e.callbacks[subscriptionID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("publish: subscription %d already registered", subscriptionID)
	}
	e.callbacks[subscriptionID] = cb
	if timeoutHint > e.timeoutHintMs {
		e.timeoutHintMs = timeoutHint
	}
	e.mu.Unlock()

	for i := 0; i < PipelineDepth; i++ {
		e.sendPublishRequest()
	}
	return nil
}

// UnregisterSubscriptionCallback stops dispatching notifications for
// subscriptionID. Outstanding requests already in flight for it drain
// naturally; no new ones are issued once the engine has no
// subscriptions left.
func (e *Engine) UnregisterSubscriptionCallback(subscriptionID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.callbacks[subscriptionID]; !exists {
		return fmt.Errorf("publish: subscription %d not registered", subscriptionID)
	}
	delete(e.callbacks, subscriptionID)
	return nil
}

// AcknowledgeNotification queues an acknowledgement to be carried on
// the next outgoing PublishRequest.
func (e *Engine) AcknowledgeNotification(subscriptionID, sequenceNumber uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.acknowledgementsPending = append(e.acknowledgementsPending, &ua.SubscriptionAcknowledgement{
		SubscriptionID: subscriptionID,
		SequenceNumber: sequenceNumber,
	})
}

// CleanupAcknowledgementsForSubscription drops any acknowledgements
// still queued for subscriptionID, for use when a subscription is
// deleted before its acknowledgement went out.
func (e *Engine) CleanupAcknowledgementsForSubscription(subscriptionID uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.acknowledgementsPending[:0]
	for _, ack := range e.acknowledgementsPending {
		if ack.SubscriptionID != subscriptionID {
			kept = append(kept, ack)
		}
	}
	e.acknowledgementsPending = kept
}

// Terminate stops the engine: in-flight responses are dropped and no
// further PublishRequests are issued. Safe to call more than once.
func (e *Engine) Terminate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.terminated = true
}

// SubscriptionCount reports how many subscriptions currently have a
// registered callback.
func (e *Engine) SubscriptionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.callbacks)
}

// PendingPublishRequestCount reports how many PublishRequests are
// currently outstanding against the session.
func (e *Engine) PendingPublishRequestCount() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingPublishRequestCount
}

// TimeoutHintMs reports the engine's current shared timeout hint
// floor, before the in-flight-request multiplier is applied.
func (e *Engine) TimeoutHintMs() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeoutHintMs
}

func (e *Engine) sendPublishRequest() {
	e.schedule(e.dispatchPublishRequest)
}

// dispatchPublishRequest issues one PublishRequest, draining whatever
// acknowledgements have accumulated since the last one went out and
// scaling the request's timeoutHint by how many requests are now
// outstanding — a client holding five PublishRequests open needs each
// one to tolerate roughly five times the per-request wait before the
// server should consider it timed out.
func (e *Engine) dispatchPublishRequest() {
	e.mu.Lock()
	if e.terminated || e.session == nil {
		e.mu.Unlock()
		return
	}
	session := e.session
	e.pendingPublishRequestCount++

	batch := e.acknowledgementsPending
	e.acknowledgementsPending = nil

	effectiveTimeoutHint := e.pendingPublishRequestCount * e.timeoutHintMs
	e.mu.Unlock()

	req := &ua.PublishRequest{
		RequestHeader:                &ua.RequestHeader{TimeoutHint: effectiveTimeoutHint},
		SubscriptionAcknowledgements: batch,
	}

	session.Publish(context.Background(), req, func(resp *ua.PublishResponse, err error) {
		e.mu.Lock()
		e.pendingPublishRequestCount--
		terminated := e.terminated
		active := len(e.callbacks)
		e.mu.Unlock()

		if terminated {
			return
		}
		if err == nil {
			e.receivePublishResponse(resp)
		}
		if active > 0 {
			e.sendPublishRequest()
		}
	})
}

// receivePublishResponse acknowledges any notification data the
// response carried and dispatches it to the owning subscription's
// callback. A response with no notification data is a keep-alive and
// is never acknowledged.
func (e *Engine) receivePublishResponse(resp *ua.PublishResponse) {
	if resp == nil {
		return
	}

	var notificationData []*ua.ExtensionObject
	var sequenceNumber uint32
	var publishTime time.Time
	if resp.NotificationMessage != nil {
		notificationData = resp.NotificationMessage.NotificationData
		sequenceNumber = resp.NotificationMessage.SequenceNumber
		publishTime = resp.NotificationMessage.PublishTime
	}

	if len(notificationData) > 0 {
		e.AcknowledgeNotification(resp.SubscriptionID, sequenceNumber)
	}

	e.mu.Lock()
	cb, ok := e.callbacks[resp.SubscriptionID]
	terminated := e.terminated
	e.mu.Unlock()

	if !ok || terminated {
		return
	}
	cb(notificationData, publishTime)
}
