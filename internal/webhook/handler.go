package webhook

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// maxBodySize bounds a single delivery.
const maxBodySize = 1 << 20

// maxRemembered bounds the duplicate-delivery set.
const maxRemembered = 1024

// Handler receives webhook deliveries: it verifies the signature, decodes
// the event, drops duplicates and hands the event to OnEvent before
// answering 200. OnEvent runs synchronously on the request goroutine, so
// concurrent deliveries call it concurrently. It should return quickly.
type Handler struct {
	secret  []byte
	logger  *log.Logger
	onEvent func(*models.WebhookEvent)

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewHandler creates a Handler. An empty secret disables verification,
// which is only meant for local experiments.
func NewHandler(secret string, logger *log.Logger, onEvent func(*models.WebhookEvent)) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if onEvent == nil {
		onEvent = func(*models.WebhookEvent) {}
	}
	return &Handler{
		secret:  []byte(secret),
		logger:  logger,
		onEvent: onEvent,
		seen:    make(map[string]struct{}),
	}
}

// ServeHTTP handles a single delivery.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	// HMAC verification needs the raw bytes.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Printf("webhook: failed to read body: %v", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	if len(body) == 0 {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if len(h.secret) > 0 {
		if err := Verify(h.secret, body, r.Header.Get(SignatureHeader)); err != nil {
			h.logger.Printf("webhook: rejected delivery from %s: %v", r.RemoteAddr, err)
			http.Error(w, "", http.StatusUnauthorized)
			return
		}
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Printf("webhook: invalid payload: %v", err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	event.Raw = body

	if h.isDuplicate(deliveryKey(&event)) {
		h.logger.Printf("webhook: duplicate delivery for agent %s (%s), ignoring", event.ID, event.Status)
		w.WriteHeader(http.StatusOK)
		return
	}

	h.logger.Printf("webhook: agent %s %s -> %s", event.ID, event.Event.PreviousStatus, event.Status)
	h.onEvent(&event)
	w.WriteHeader(http.StatusOK)
}

// deliveryKey identifies one status transition of one agent.
func deliveryKey(event *models.WebhookEvent) string {
	return event.ID + "|" + string(event.Status) + "|" + event.Event.Timestamp.UTC().Format(time.RFC3339Nano)
}

// isDuplicate records key and reports whether it was already seen. The
// oldest keys are forgotten once maxRemembered is reached.
func (h *Handler) isDuplicate(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.seen[key]; ok {
		return true
	}
	h.seen[key] = struct{}{}
	h.order = append(h.order, key)
	if len(h.order) > maxRemembered {
		delete(h.seen, h.order[0])
		h.order = h.order[1:]
	}
	return false
}
