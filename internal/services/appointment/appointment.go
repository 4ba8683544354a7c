// Package services собирает данные о приемах для дашборда и списков.
// Создание и перенос приемов в этой системе не выполняются.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/sisalud/internal/models"
)

// AppointmentRepository описывает выборки приемов из базы.
type AppointmentRepository interface {
	ListAppointmentsForDoctorOnDate(ctx context.Context, doctorUID string, day time.Time) ([]*models.Appointment, error)
	NextAppointmentForPatient(ctx context.Context, patientUID string, after time.Time) (*models.Appointment, error)
	ListAppointmentsForUser(ctx context.Context, userUID, role string) ([]*models.Appointment, error)
}

// Dashboard данные стартовой страницы пользователя.
// Для врача заполняется TodayAppointments, для пациента — NextAppointment.
type Dashboard struct {
	TodayAppointments []*models.Appointment `json:"today_appointments,omitempty"`
	NextAppointment   *models.Appointment   `json:"next_appointment,omitempty"`
}

// AppointmentService реализует чтение приемов для обработчиков.
type AppointmentService struct {
	appointments AppointmentRepository
	now          func() time.Time
}

// NewAppointmentService создает новый экземпляр AppointmentService.
func NewAppointmentService(appointments AppointmentRepository) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		now:          time.Now,
	}
}

// GetDashboard возвращает данные дашборда в зависимости от роли:
// врач видит приемы на сегодня, пациент — ближайший будущий прием.
func (s *AppointmentService) GetDashboard(ctx context.Context, userUID, role string) (*Dashboard, error) {
	const op = "services.appointment.GetDashboard"

	if role == models.RoleDoctor {
		today, err := s.appointments.ListAppointmentsForDoctorOnDate(ctx, userUID, s.now())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &Dashboard{TodayAppointments: today}, nil
	}

	next, err := s.appointments.NextAppointmentForPatient(ctx, userUID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Dashboard{NextAppointment: next}, nil
}

// ListForUser возвращает все приемы пользователя по его роли.
func (s *AppointmentService) ListForUser(ctx context.Context, userUID, role string) ([]*models.Appointment, error) {
	const op = "services.appointment.ListForUser"

	list, err := s.appointments.ListAppointmentsForUser(ctx, userUID, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
