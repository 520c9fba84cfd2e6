package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/llm"
	"github.com/geolens/geolens/internal/llm/prompt"
)

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type chatDelta struct {
	Delta string `json:"delta"`
}

// Chat handles POST /chat, streaming the assistant reply as server-sent
// events. Each delta is one data frame; the stream ends with [DONE].
func Chat(driver llm.StreamDriver, registry prompt.Registry, model string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, r, apperrors.NewInvalidInput("Invalid request body"))
			return
		}
		if len(req.Messages) == 0 {
			respondWithError(w, r, apperrors.NewInvalidInput("Messages are required"))
			return
		}

		def, err := registry.Get("chat-assistant")
		if err != nil {
			respondWithError(w, r, apperrors.Wrap(apperrors.CodeConfigInvalid, "chat prompt missing", err))
			return
		}
		system, _ := def.Render(nil)

		flusher, ok := w.(http.Flusher)
		if !ok {
			respondWithError(w, r, apperrors.NewInternal("Streaming not supported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		messages := append([]llm.Message{{Role: "system", Content: system}}, req.Messages...)
		err = driver.Stream(r.Context(), &llm.Request{Model: model, Messages: messages}, func(delta string) error {
			frame, err := json.Marshal(chatDelta{Delta: delta})
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		})
		if err != nil {
			// Headers are already out; surface the failure as a final frame.
			frame, _ := json.Marshal(map[string]string{"error": apperrors.Ensure(err).Message})
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
			return
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}
