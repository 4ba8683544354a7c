// Package models содержит доменные модели системы: пользователей клиники
// и записи на прием. Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User представляет зарегистрированного пользователя клиники.
type User struct {
	UID              string     // Уникальный идентификатор пользователя
	ExternalID       string     // Уникальный идентификатор, выбранный при регистрации (логин)
	Role             string     // Роль пользователя: patient, doctor или admin
	Name             string     // Полное имя
	Email            string     // Электронная почта (уникальная)
	PasswordHash     string     // Хэш пароля пользователя
	Age              *int       // Возраст, только для пациентов
	Specialty        *string    // Специальность, только для врачей
	LicenseNumber    *string    // Номер лицензии, только для врачей
	MedicalNotes     *string    // Заметки о заболеваниях пациента
	RegisteredAt     time.Time  // Дата регистрации
	Active           bool       // Признак активной учетной записи (мягкое удаление)
	ResetToken       *string    // Токен восстановления пароля, если восстановление запущено
	ResetTokenExpiry *time.Time // Срок действия токена, заполняется вместе с токеном
}

// UserStats агрегированные счетчики активных пользователей для панели администратора.
type UserStats struct {
	Total    int `json:"total"`
	Doctors  int `json:"doctors"`
	Patients int `json:"patients"`
}
