package domain

import "time"

// User описывает учётную запись покупателя или менеджера магазина.
// Выпуск и проверка токенов доступа выполняются внешним шлюзом,
// ядро оперирует только идентификатором и профилем.
type User struct {
	ID          string
	Email       string
	PhoneNumber string
	// PasswordHash хранит bcrypt-хэш, исходный пароль нигде не сохраняется.
	PasswordHash string
	FirstName    string
	LastName     string
	// Address подставляется в заказ как адрес доставки по умолчанию.
	Address string
	// IsManager даёт доступ к операциям каталога и чужим заказам.
	IsManager bool
	CreatedAt time.Time
}

// ValidateInvariants проверяет обязательные поля профиля.
func (u *User) ValidateInvariants() []error {
	var errs []error

	if u.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if u.PasswordHash == "" {
		errs = append(errs, ErrPasswordRequired)
	}
	if u.Address == "" {
		errs = append(errs, ErrAddressRequired)
	}

	return errs
}
