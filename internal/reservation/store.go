// Package reservation grava reservas e responde quais horários de um dia já
// estão ocupados.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericoliveiras/tienda-virtual/internal/model"
)

const DateLayout = "2006-01-02"

var ErrInvalidReservation = errors.New("reserva inválida")

// Motivos de recusa. Todos casam com ErrInvalidReservation via errors.Is.
var (
	ErrMissingName    = fmt.Errorf("%w: nome obrigatório", ErrInvalidReservation)
	ErrMissingService = fmt.Errorf("%w: serviço obrigatório", ErrInvalidReservation)
	ErrInvalidDate    = fmt.Errorf("%w: data ausente ou inválida", ErrInvalidReservation)
	ErrInvalidTime    = fmt.Errorf("%w: hora ausente ou inválida", ErrInvalidReservation)
)

// Input são os campos de uma nova reserva, já convertidos. Time é ponteiro
// para distinguir "sem hora" de meia-noite.
type Input struct {
	Name    string
	Date    time.Time
	Time    *datatypes.Time
	Service string
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create grava a reserva. Não há verificação de conflito: dois clientes
// podem reservar o mesmo (data, hora).
func (s *Store) Create(ctx context.Context, in Input) (*model.Reservation, error) {
	name := strings.TrimSpace(in.Name)
	service := strings.TrimSpace(in.Service)

	switch {
	case name == "":
		return nil, ErrMissingName
	case in.Date.IsZero():
		return nil, ErrInvalidDate
	case in.Time == nil:
		return nil, ErrInvalidTime
	case service == "":
		return nil, ErrMissingService
	}

	r := model.Reservation{
		Name:    name,
		Date:    datatypes.Date(in.Date),
		Time:    *in.Time,
		Service: service,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("falha ao gravar reserva: %w", err)
	}
	return &r, nil
}

// BookedTimes devolve todos os horários gravados para a data, sem ordenar e
// sem remover repetidos.
func (s *Store) BookedTimes(ctx context.Context, date time.Time) ([]datatypes.Time, error) {
	times := []datatypes.Time{}
	err := s.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where(map[string]any{"date": datatypes.Date(date)}).
		Pluck("time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar horários de %s: %w", date.Format(DateLayout), err)
	}
	return times, nil
}

// List devolve as reservas de uma data, ordenadas por horário.
func (s *Store) List(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := s.db.WithContext(ctx).
		Where(map[string]any{"date": datatypes.Date(date)}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}}).
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar reservas: %w", err)
	}
	return reservations, nil
}

// ParseDate aceita apenas AAAA-MM-DD.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

// ParseTime aceita HH:MM e HH:MM:SS.
func ParseTime(value string) (datatypes.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
}
