package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/raffle-service/internal/api/dto"
	"github.com/spec-kit/raffle-service/internal/auth"
	"github.com/spec-kit/raffle-service/internal/service"
)

// AdminHandler exposes the review queue and reporting endpoints for
// authenticated actors.
type AdminHandler struct {
	review  *service.ReviewService
	reports *service.ReportService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(review *service.ReviewService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{review: review, reports: reports}
}

// ListPending handles GET /admin/payments/pending.
func (h *AdminHandler) ListPending(c *fiber.Ctx) error {
	items, err := h.review.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"pending": dto.NewPendingReviewResponses(items),
	}})
}

// Confirm handles POST /admin/payments/:id/confirm.
func (h *AdminHandler) Confirm(c *fiber.Ctx) error {
	paymentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payment id")
	}
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	result, err := h.review.Confirm(c.Context(), paymentID, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponse(result)})
}

// Reject handles POST /admin/payments/:id/reject.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	paymentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payment id")
	}
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	result, err := h.review.Reject(c.Context(), paymentID, actor.ID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponse(result)})
}

// Participants handles GET /admin/participants.
func (h *AdminHandler) Participants(c *fiber.Ctx) error {
	participants, err := h.reports.FullList(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, dto.NewParticipantResponse(&participants[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"participants": out}})
}

// PaidParticipants handles GET /admin/participants/paid.
func (h *AdminHandler) PaidParticipants(c *fiber.Ctx) error {
	paid, err := h.reports.PaidList(c.Context())
	if err != nil {
		return err
	}
	type entry struct {
		Participant dto.ParticipantResponse `json:"participant"`
		TicketIDs   []int                   `json:"ticket_ids"`
	}
	out := make([]entry, 0, len(paid))
	for i := range paid {
		out = append(out, entry{
			Participant: dto.NewParticipantResponse(&paid[i].Participant),
			TicketIDs:   paid[i].TicketIDs,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"participants": out}})
}

// Lottery handles GET /admin/lottery.
func (h *AdminHandler) Lottery(c *fiber.Ctx) error {
	report, err := h.reports.Lottery(c.Context())
	if err != nil {
		return err
	}
	type entry struct {
		ParticipantID int64  `json:"participant_id"`
		FullName      string `json:"full_name"`
		TotalUnits    int    `json:"total_units"`
		ReferralUnits int    `json:"referral_units"`
	}
	entries := make([]entry, 0, len(report.Entries))
	for _, e := range report.Entries {
		entries = append(entries, entry{
			ParticipantID: e.ParticipantID,
			FullName:      e.FullName,
			TotalUnits:    e.TotalUnits,
			ReferralUnits: e.ReferralUnits,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"entries":           entries,
		"participant_count": report.ParticipantCount,
		"total_units":       report.TotalUnits,
		"referral_units":    report.ReferralUnits,
		"average_units":     report.AverageUnits,
	}})
}
