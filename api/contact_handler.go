package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ContactService
}

func newContactHandler(service *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// send relays a message from the public contact form
// @Summary Contact
// @Param message body services.ContactMessage true "Contact message"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope "Invalid message"
// @Failure 503 {object} envelope "Mail not configured"
// @Router /contact [post]
func (h contactHandler) send() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.service == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("Contact form is not configured"))
			return
		}

		var msg services.ContactMessage
		if err := decodeJSON(w, r, &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.service.Send(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "Message sent", nil)
	}
}
