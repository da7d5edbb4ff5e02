package v1

import (
	"errors"
	"net/http"

	"softacc-backend/internal/delivery/http/response"
	"softacc-backend/internal/domain"
	"softacc-backend/pkg/apperror"
	"softacc-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const maxContactBodyBytes = 64 << 10

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact route on group (public, no auth required).
// Extra handlers such as a rate limiter run before the submission.
func NewContactHandler(group *gin.RouterGroup, contactUC domain.ContactUsecase, guards ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	group.POST("/contact", append(guards, handler.SubmitContact)...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form submission to the Softacc inbox. Public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)

	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Ungültige Anfrage"))
		return
	}

	receipt, err := h.contactUC.Submit(c.Request.Context(), &req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindValidation {
			security.DefaultLogger().LogValidationFailed(
				c.Request.Context(),
				req.Email,
				c.ClientIP(),
				c.GetString("RequestID"),
				appErr.Fields,
			)
		}
		c.Error(err)
		return
	}

	response.Delivered(c, http.StatusOK, "Nachricht erfolgreich gesendet", receipt.MessageID)
}
