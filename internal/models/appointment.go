package models

import "time"

// Appointment представляет запись на прием между пациентом и врачом.
type Appointment struct {
	ID         int       `json:"id"`
	Date       time.Time `json:"date"`
	Kind       string    `json:"kind"` // Тип приема: консультация, осмотр и т.п.
	PatientUID string    `json:"patient_uid"`
	DoctorUID  string    `json:"doctor_uid"`
}

// ResetMailJob задание на отправку письма восстановления пароля,
// публикуется в очередь и обрабатывается сервисом-отправителем.
type ResetMailJob struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	ResetURL string `json:"reset_url"`
}
