package authRepository

const (
	queryCreateUser = `
INSERT INTO Users (id, email, name, password, phone_number, created_at)
VALUES (:id, :email, :name, :password, :phone_number, :created_at)`

	queryGetById = `
SELECT id, email, name, password, phone_number, created_at, updated_at
FROM Users
    WHERE id = :id`

	queryGetByEmail = `
SELECT id, email, name, password, phone_number, created_at, updated_at
FROM Users
    WHERE email = :email`
)
