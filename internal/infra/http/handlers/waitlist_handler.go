package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lovelingo/waitlist-api/internal/entity"
	"github.com/lovelingo/waitlist-api/internal/infra/http/middleware"
	"github.com/lovelingo/waitlist-api/internal/usecase"
)

type WaitlistHandler struct {
	SignupUC    *usecase.SignupUseCase
	StatsUC     *usecase.StatsUseCase
	rateLimiter *RateLimiter
}

func NewWaitlistHandler(signupUC *usecase.SignupUseCase, statsUC *usecase.StatsUseCase) *WaitlistHandler {
	return &WaitlistHandler{
		SignupUC:    signupUC,
		StatsUC:     statsUC,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// Signup handles POST /api/waitlist.
func (h *WaitlistHandler) Signup(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, APIResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	input.IPAddress = clientIP
	input.UserAgent = r.UserAgent()

	output, err := h.SignupUC.Execute(r.Context(), input)
	if err != nil {
		var validationErrors usecase.ValidationErrors
		switch {
		case errors.As(err, &validationErrors):
			writeJSON(w, http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Validation error",
				Errors:  validationErrors.Messages(),
			})
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			writeJSON(w, http.StatusConflict, APIResponse{
				Success: false,
				Message: "This email is already on our waitlist! Check your inbox for our welcome email.",
			})
		default:
			RespondError(w, r, err)
		}
		return
	}

	middleware.RecordSignup(output.Language)

	writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Message: "Welcome to LoveLingo! Check your email for next steps.",
		Data:    output,
	})
}

// Stats handles GET /api/waitlist/stats.
func (h *WaitlistHandler) Stats(w http.ResponseWriter, r *http.Request) {
	output, err := h.StatsUC.Execute(r.Context())
	if err != nil {
		log.Printf("Stats error: %v (ip=%s)", err, getClientIP(r))
		writeJSON(w, http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Unable to fetch statistics",
		})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    output,
	})
}
