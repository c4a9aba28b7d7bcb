package services

import "errors"

// Общая таксономия ошибок сервисного слоя.
// Хендлеры сопоставляют их со статусами 400/401/403/404,
// всё прочее считается сбоем хранилища (500).
var (
	ErrValidation         = errors.New("ошибка валидации")
	ErrNotFound           = errors.New("не найдено")
	ErrForbidden          = errors.New("доступ запрещён")
	ErrUsernameTaken      = errors.New("имя пользователя уже занято")
	ErrEmailTaken         = errors.New("адрес электронной почты уже зарегистрирован")
	ErrTagExists          = errors.New("тег уже существует")
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrAccountInactive    = errors.New("учётная запись деактивирована")
	ErrWrongPassword      = errors.New("текущий пароль неверен")
)
