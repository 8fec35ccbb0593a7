package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"gorm.io/datatypes"

	"github.com/ericoliveiras/tienda-virtual/internal/logging"
	"github.com/ericoliveiras/tienda-virtual/internal/metrics"
	"github.com/ericoliveiras/tienda-virtual/internal/model"
	"github.com/ericoliveiras/tienda-virtual/internal/reservation"
)

const SessionName = "tienda-session"

type ReservationHandler struct {
	Reservations *reservation.Store
	Store        *sessions.CookieStore
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// formValue lê o primeiro campo não vazio entre os nomes informados.
func formValue(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.PostForm(name)); v != "" {
			return v
		}
	}
	return ""
}

// parseForm converte o formulário de reserva. Nome e serviço têm padrão;
// data e hora são obrigatórias.
func parseForm(c *gin.Context) (reservation.Input, error) {
	in := reservation.Input{
		Name:    formValue(c, "name", "nombre"),
		Service: formValue(c, "service", "servicio"),
	}
	if in.Name == "" {
		in.Name = model.DefaultCustomerName
	}
	if in.Service == "" {
		in.Service = model.DefaultService
	}

	date, err := reservation.ParseDate(formValue(c, "date", "fecha"))
	if err != nil {
		return in, err
	}
	in.Date = date

	t, err := reservation.ParseTime(formValue(c, "time", "hora"))
	if err != nil {
		return in, err
	}
	in.Time = &t
	return in, nil
}

// failureMessage traduz o erro para o cliente. O texto interno do erro só
// vai para o log.
func failureMessage(err error) string {
	var reason string
	switch {
	case errors.Is(err, reservation.ErrMissingName):
		reason = "el nombre es obligatorio"
	case errors.Is(err, reservation.ErrInvalidDate):
		reason = "indique una fecha válida (AAAA-MM-DD)"
	case errors.Is(err, reservation.ErrInvalidTime):
		reason = "indique una hora válida (HH:MM)"
	case errors.Is(err, reservation.ErrMissingService):
		reason = "el servicio es obligatorio"
	case errors.Is(err, reservation.ErrInvalidReservation):
		reason = "los datos de la reserva no son válidos"
	default:
		reason = "error interno, inténtelo de nuevo más tarde"
	}
	return "No se pudo crear la reserva: " + reason
}

func (h *ReservationHandler) create(c *gin.Context, endpoint string) (*model.Reservation, error) {
	in, err := parseForm(c)
	if err != nil {
		return nil, err
	}
	r, err := h.Reservations.Create(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	h.Metrics.ReservationCreated(endpoint)
	logging.FromContext(c, h.Logger).Info("reserva criada",
		"reservation_id", r.ID, "date", r.DateString(), "time", r.Time.String(), "endpoint", endpoint)
	return r, nil
}

// ShowReservationPage exibe o formulário simples de reservas.
func (h *ReservationHandler) ShowReservationPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reservations.html", gin.H{})
}

// ProcessReservationForm grava a reserva e devolve a mesma página com a
// confirmação ou o motivo da falha.
func (h *ReservationHandler) ProcessReservationForm(c *gin.Context) {
	r, err := h.create(c, "reservations")
	if err != nil {
		logging.FromContext(c, h.Logger).Warn("reserva recusada", "error", err)
		c.HTML(http.StatusOK, "reservations.html", gin.H{
			"Message": failureMessage(err),
			"Success": false,
		})
		return
	}

	c.HTML(http.StatusOK, "reservations.html", gin.H{
		"Message": fmt.Sprintf("Reserva confirmada para %s - %s el %s a las %s",
			r.Name, r.Service, r.DateString(), r.Time.String()),
		"Success": true,
	})
}

// ShowBookingPage exibe a página de agendamento com as mensagens flash.
func (h *ReservationHandler) ShowBookingPage(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	successFlashes := session.Flashes("success")
	errorFlashes := session.Flashes("error")
	if err := session.Save(c.Request, c.Writer); err != nil {
		logging.FromContext(c, h.Logger).Error("erro ao salvar sessão", "error", err)
	}

	c.HTML(http.StatusOK, "booking.html", gin.H{
		"SuccessMessages": successFlashes,
		"ErrorMessages":   errorFlashes,
	})
}

// CreateReservation atende o POST da página de agendamento.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	if _, err := h.create(c, "reservas"); err != nil {
		logging.FromContext(c, h.Logger).Warn("reserva recusada", "error", err)
		c.HTML(http.StatusOK, "booking.html", gin.H{
			"ErrorMessages": []any{failureMessage(err)},
		})
		return
	}

	c.HTML(http.StatusOK, "booking.html", gin.H{
		"SuccessMessages": []any{"¡Reserva creada con éxito!"},
	})
}

// RedirectToBooking trata o GET em /reservas/crear/: avisa via flash e volta
// para o formulário.
func (h *ReservationHandler) RedirectToBooking(c *gin.Context) {
	session, _ := h.Store.Get(c.Request, SessionName)
	session.AddFlash("Utilice el formulario para crear una reserva.", "error")
	if err := session.Save(c.Request, c.Writer); err != nil {
		logging.FromContext(c, h.Logger).Error("erro ao salvar sessão", "error", err)
	}
	c.Redirect(http.StatusFound, "/reservar/")
}

// AvailableSlots devolve os horários já ocupados de uma data.
func (h *ReservationHandler) AvailableSlots(c *gin.Context) {
	value := strings.TrimSpace(c.Query("date"))
	if value == "" {
		c.JSON(http.StatusOK, gin.H{"booked": []datatypes.Time{}})
		return
	}

	date, err := reservation.ParseDate(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida, use AAAA-MM-DD."})
		return
	}

	booked, err := h.Reservations.BookedTimes(c.Request.Context(), date)
	if err != nil {
		logging.FromContext(c, h.Logger).Error("erro ao buscar horários", "date", value, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar horarios."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booked": booked})
}
