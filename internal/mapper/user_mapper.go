package mapper

import (
	"academy-be/internal/entity"
	"academy-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         entity.UserRole(u.Role),
		IsActive:     u.IsActive,
		AdminId:      u.AdminId,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		AdminId:      u.AdminId,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ParentStudentToEntity(ps *model.ParentStudent) *entity.ParentStudent {
	if ps == nil {
		return nil
	}
	return &entity.ParentStudent{
		Id:        ps.Id,
		ParentId:  ps.ParentId,
		StudentId: ps.StudentId,
		CreatedAt: ps.CreatedAt,
	}
}

func (m *UserMapper) ParentStudentToModel(ps *entity.ParentStudent) *model.ParentStudent {
	if ps == nil {
		return nil
	}
	return &model.ParentStudent{
		Id:        ps.Id,
		ParentId:  ps.ParentId,
		StudentId: ps.StudentId,
		CreatedAt: ps.CreatedAt,
	}
}
