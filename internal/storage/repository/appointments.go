package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/sisalud/internal/models"
)

// ListAppointmentsForDoctorOnDate возвращает приемы врача за указанный день.
func (s *Storage) ListAppointmentsForDoctorOnDate(ctx context.Context, doctorUID string, day time.Time) ([]*models.Appointment, error) {
	const op = "storage.ListAppointmentsForDoctorOnDate"

	query := `SELECT id, date, kind, patient_uid, doctor_uid
			  FROM appointments
			  WHERE doctor_uid = $1 AND date::DATE = $2::DATE
			  ORDER BY date`
	rows, err := s.DB.QueryContext(ctx, query, doctorUID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err = rows.Scan(&a.ID, &a.Date, &a.Kind, &a.PatientUID, &a.DoctorUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// NextAppointmentForPatient возвращает ближайший будущий прием пациента
// или nil, если таких нет.
func (s *Storage) NextAppointmentForPatient(ctx context.Context, patientUID string, after time.Time) (*models.Appointment, error) {
	const op = "storage.NextAppointmentForPatient"

	query := `SELECT id, date, kind, patient_uid, doctor_uid
			  FROM appointments
			  WHERE patient_uid = $1 AND date >= $2
			  ORDER BY date
			  LIMIT 1`
	var a models.Appointment
	err := s.DB.QueryRowContext(ctx, query, patientUID, after).
		Scan(&a.ID, &a.Date, &a.Kind, &a.PatientUID, &a.DoctorUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

// ListAppointmentsForUser возвращает все приемы пользователя.
// Для врача выборка идет по doctor_uid, для пациента — по patient_uid.
func (s *Storage) ListAppointmentsForUser(ctx context.Context, userUID, role string) ([]*models.Appointment, error) {
	const op = "storage.ListAppointmentsForUser"

	column := "patient_uid"
	if role == models.RoleDoctor {
		column = "doctor_uid"
	}
	query := `SELECT id, date, kind, patient_uid, doctor_uid
			  FROM appointments
			  WHERE ` + column + ` = $1
			  ORDER BY date`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err = rows.Scan(&a.ID, &a.Date, &a.Kind, &a.PatientUID, &a.DoctorUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
