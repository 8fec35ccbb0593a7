// /internal/model/reservation.go
package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DefaultCustomerName e DefaultService são usados quando o formulário chega sem esses campos.
const (
	DefaultCustomerName = "Cliente"
	DefaultService      = "Masaje"
)

// Reservation representa um horário reservado por um cliente.
//
// Não existe restrição de unicidade em (Date, Time): duas reservas no mesmo
// horário são aceitas. O índice composto existe apenas para a consulta de
// horários ocupados.
type Reservation struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"not null;size:100"`
	Date      datatypes.Date `gorm:"not null;index:idx_reservation_slot,priority:1"`
	Time      datatypes.Time `gorm:"not null;index:idx_reservation_slot,priority:2"`
	Service   string         `gorm:"not null;size:100"`
	CreatedAt time.Time
}

// DateString formata a data como AAAA-MM-DD.
func (r Reservation) DateString() string {
	return time.Time(r.Date).Format("2006-01-02")
}

func (r Reservation) String() string {
	return fmt.Sprintf("%s - %s %s (%s)", r.Name, r.DateString(), r.Time.String(), r.Service)
}
