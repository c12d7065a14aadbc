package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"movie-quiz-service/internal/app"
	"movie-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode string `json:"mode"`
}

type guessPayload struct {
	Text string `json:"text"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Stale   bool   `json:"stale,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and drives one player's session.
// State snapshots reach the client through the session subscription; replies
// to guesses and trivia answers are sent directly.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Hijacked connections do not cancel the request context on close.
	ctx, cancelCtx := context.WithCancel(r.Context())
	defer cancelCtx()

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var starts sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-closeSignals:
		case <-writerDone:
		}
	}
	emitError := func(err error) {
		emit(outboundMessage[any]{Type: "error", Payload: errorPayload{
			Message: err.Error(),
			Stale:   errors.Is(err, domain.ErrStaleGeneration),
		}})
	}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				emit(outboundMessage[any]{Type: "state", Payload: update})
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errors.New("invalid start payload"))
				continue
			}
			mode, err := domain.ParseMode(payload.Mode)
			if err != nil {
				emitError(err)
				continue
			}
			// Bootstrap runs detached so a reset can overtake it.
			starts.Add(1)
			go func() {
				defer starts.Done()
				if _, err := h.service.Start(ctx, sessionID, mode); err != nil && !errors.Is(err, context.Canceled) {
					emitError(err)
				}
			}()
		case "guess":
			var payload guessPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errors.New("invalid guess payload"))
				continue
			}
			result, err := h.service.SubmitGuess(ctx, sessionID, payload.Text)
			if err != nil {
				emitError(err)
				continue
			}
			emit(outboundMessage[any]{Type: "guessResult", Payload: result})
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errors.New("invalid answer payload"))
				continue
			}
			result, err := h.service.SubmitTriviaAnswer(ctx, sessionID, payload.Option)
			if err != nil {
				emitError(err)
				continue
			}
			emit(outboundMessage[any]{Type: "answerResult", Payload: result})
		default:
			action, ok := h.action(inbound.Type)
			if !ok {
				emitError(errors.New("unsupported message type"))
				continue
			}
			if _, err := action(ctx, sessionID); err != nil {
				emitError(err)
			}
		}
	}

	cancelCtx()
	close(closeSignals)
	starts.Wait()
	<-updatesDone
	close(send)
	<-writerDone

	cancel()
	h.service.Leave(context.Background(), sessionID)
}

// action maps the payload-free message types onto service calls. Their
// resulting state arrives through the subscription.
func (h *WSHandler) action(msgType string) (func(context.Context, string) (domain.SessionState, error), bool) {
	switch msgType {
	case "skipImage":
		return h.service.SkipImage, true
	case "nextKeyword":
		return h.service.NextKeyword, true
	case "skipToDescription":
		return h.service.SkipToDescription, true
	case "revealTitle":
		return h.service.RevealTitle, true
	case "nextQuote":
		return h.service.NextQuote, true
	case "giveUp":
		return h.service.GiveUp, true
	case "nextQuestion":
		return h.service.NextTrivia, true
	case "reset":
		return h.service.Reset, true
	}
	return nil, false
}
