package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/service"
	"github.com/iliyamo/room-reservation/internal/utils"
)

// StudentHandler serves student registration and the administrator's
// student directory. Registration is the only open endpoint that writes:
// it creates the student and mints the access token they use for every
// subsequent call.
type StudentHandler struct {
	svc       *service.ReservationService
	jwtSecret string
	tokenTTL  int // minutes
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc *service.ReservationService, jwtSecret string, tokenTTLMin int) *StudentHandler {
	return &StudentHandler{svc: svc, jwtSecret: jwtSecret, tokenTTL: tokenTTLMin}
}

type registerStudentRequest struct {
	ExternalID string  `json:"external_id" validate:"required,max=20"`
	Name       string  `json:"name" validate:"required,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

// Register handles POST /v1/students. On success it returns 201 with
// the created student and a STUDENT-role access token.
func (h *StudentHandler) Register(c echo.Context) error {
	var req registerStudentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	student, err := h.svc.RegisterStudent(c.Request().Context(), req.ExternalID, req.Name, req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := utils.NewAccessToken(h.jwtSecret, student.ID, "STUDENT", h.tokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"student":      newStudentView(student),
		"access_token": token.Token,
		"expires_at":   token.Exp,
	})
}

// List handles GET /v1/admin/students. With ?external_id= it resolves a
// single student; otherwise it returns the full directory ordered by
// name.
func (h *StudentHandler) List(c echo.Context) error {
	if ext := c.QueryParam("external_id"); ext != "" {
		student, err := h.svc.FindStudentByExternalID(c.Request().Context(), ext)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"item": newStudentView(student)})
	}

	students, err := h.svc.ListStudents(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	items := make([]studentView, 0, len(students))
	for i := range students {
		items = append(items, newStudentView(&students[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
