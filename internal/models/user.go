package models

import "time"

// User is an account holder. Profile fields beyond name and email are
// nullable until the user provides them; registration only collects
// nombre, apellido and email.
type User struct {
	ID        int64      `json:"id_usuario"`
	FirstName string     `json:"nombre"`
	LastName  string     `json:"apellido"`
	DNI       *string    `json:"dni"`
	Address   *string    `json:"direccion"`
	Phone     *string    `json:"telefono"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"fecha_nacimiento"`
	CreatedAt time.Time  `json:"created_at"`
}
