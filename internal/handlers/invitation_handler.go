package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"happyschools/internal/repository"
	"happyschools/internal/service"
	"happyschools/internal/validation"
)

const invitationTTL = 7 * 24 * time.Hour

// InvitationHandler lets teachers invite students by email.
type InvitationHandler struct {
	invitationRepo *repository.InvitationRepository
	emailService   *service.EmailService
}

// NewInvitationHandler creates a new invitation handler.
func NewInvitationHandler(invitationRepo *repository.InvitationRepository, emailService *service.EmailService) *InvitationHandler {
	return &InvitationHandler{
		invitationRepo: invitationRepo,
		emailService:   emailService,
	}
}

type invitationPayload struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}

// Create handles POST /api/invitations (teachers only).
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	teacher := UserFromContext(r)
	invitation, err := h.invitationRepo.CreateInvitation(req.Email, teacher.ID, time.Now().Add(invitationTTL))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create invitation", "Failed to create invitation", err)
		return
	}

	if h.emailService != nil {
		go func() {
			if err := h.emailService.SendInvitationEmail(context.Background(), invitation.Email, teacher.Name, invitation.Code); err != nil {
				log.Printf("Failed to send invitation email to %s: %v", invitation.Email, err)
			}
		}()
	}

	writeJSON(w, http.StatusCreated, invitationPayload{
		ID:        invitation.ID,
		Code:      invitation.Code,
		Email:     invitation.Email,
		CreatedAt: invitation.CreatedAt,
		ExpiresAt: invitation.ExpiresAt,
	})
}

// List handles GET /api/invitations (teachers only).
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.invitationRepo.ListInvitationsByTeacher(UserFromContext(r).ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list invitations", "Failed to list invitations", err)
		return
	}

	payloads := make([]invitationPayload, 0, len(invitations))
	for _, inv := range invitations {
		payloads = append(payloads, invitationPayload{
			ID:        inv.ID,
			Code:      inv.Code,
			Email:     inv.Email,
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
			UsedAt:    inv.UsedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invitations": payloads})
}

// Delete handles DELETE /api/invitations/{id} (teachers only).
func (h *InvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invitation ID", "", nil)
		return
	}

	if err := h.invitationRepo.DeleteInvitation(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete invitation", "Failed to delete invitation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
