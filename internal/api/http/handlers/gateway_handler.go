package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/raffle-service/internal/api/dto"
	"github.com/spec-kit/raffle-service/internal/config"
	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/service"
	"github.com/spec-kit/raffle-service/internal/session"
)

// GatewayHandler exposes the participant-facing endpoints the chat
// gateway calls on behalf of participants.
type GatewayHandler struct {
	registration *service.RegistrationService
	review       *service.ReviewService
	catalog      *domain.Catalog
	payment      config.PaymentConfig
	channelURL   string
}

// NewGatewayHandler constructs handler.
func NewGatewayHandler(
	registration *service.RegistrationService,
	review *service.ReviewService,
	catalog *domain.Catalog,
	payment config.PaymentConfig,
	channelURL string,
) *GatewayHandler {
	return &GatewayHandler{
		registration: registration,
		review:       review,
		catalog:      catalog,
		payment:      payment,
		channelURL:   channelURL,
	}
}

// Contact handles POST /gateway/contacts.
func (h *GatewayHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Handle = strings.TrimSpace(req.Handle)
	if req.Handle == "" {
		return fiber.NewError(http.StatusBadRequest, "handle required")
	}

	result, err := h.registration.Contact(c.Context(), req.Handle, req.NotifyAddress)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"participant": dto.NewParticipantResponse(result.Participant),
			"registered":  result.Registered,
			"next_step":   string(result.NextStep),
		},
	})
}

// SubmitFullName handles POST /gateway/participants/:handle/registration/full-name.
func (h *GatewayHandler) SubmitFullName(c *fiber.Ctx) error {
	var req dto.RegistrationInputRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Value) == "" {
		return fiber.NewError(http.StatusBadRequest, "full name required")
	}

	next, err := h.registration.SubmitFullName(c.Context(), c.Params("handle"), req.Value)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return fiber.NewError(http.StatusConflict, "no registration in progress")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"next_step": string(next)}})
}

// SubmitPhone handles POST /gateway/participants/:handle/registration/phone.
func (h *GatewayHandler) SubmitPhone(c *fiber.Ctx) error {
	var req dto.RegistrationInputRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Value) == "" {
		return fiber.NewError(http.StatusBadRequest, "phone required")
	}

	participant, err := h.registration.SubmitPhone(c.Context(), c.Params("handle"), req.Value)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return fiber.NewError(http.StatusConflict, "no registration in progress")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"participant": dto.NewParticipantResponse(participant),
	}})
}

// Offerings handles GET /gateway/participants/:handle/offerings.
func (h *GatewayHandler) Offerings(c *fiber.Ctx) error {
	participant, err := h.registration.Lookup(c.Context(), c.Params("handle"))
	if err != nil {
		return err
	}
	offerings, err := h.review.Offerings(c.Context(), participant.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"offerings": dto.NewOfferingResponses(offerings),
	}})
}

// Instructions handles GET /gateway/tickets/:id/instructions.
func (h *GatewayHandler) Instructions(c *fiber.Ctx) error {
	ticketID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid ticket id")
	}
	def, ok := h.catalog.ByID(ticketID)
	if !ok {
		return domain.ErrNotFound
	}

	resp := dto.InstructionsResponse{
		TicketID:  def.ID,
		Name:      def.Name,
		Price:     def.Price,
		PriceText: dto.FormatPrice(def.Price),
	}
	if def.IsReferral() {
		resp.ChannelURL = h.channelURL
	} else {
		resp.CardNumber = h.payment.CardNumber
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SubmitPayment handles POST /gateway/participants/:handle/payments.
func (h *GatewayHandler) SubmitPayment(c *fiber.Ctx) error {
	var req dto.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProofRef == "" {
		return fiber.NewError(http.StatusBadRequest, "proof_ref required")
	}

	participant, err := h.registration.Lookup(c.Context(), c.Params("handle"))
	if err != nil {
		return err
	}
	payment, err := h.review.SubmitPayment(c.Context(), participant.ID, req.TicketID, req.ProofRef)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"payment": dto.NewPaymentResponse(payment),
	}})
}

// MyTickets handles GET /gateway/participants/:handle/payments.
func (h *GatewayHandler) MyTickets(c *fiber.Ctx) error {
	participant, err := h.registration.Lookup(c.Context(), c.Params("handle"))
	if err != nil {
		return err
	}
	payments, err := h.review.MyTickets(c.Context(), participant.ID)
	if err != nil {
		return err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, dto.NewPaymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"payments": out}})
}
