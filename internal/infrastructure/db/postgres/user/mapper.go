package user

import (
	domain "file-uploader/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
	}
}
