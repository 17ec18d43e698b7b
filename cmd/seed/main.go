// Command seed creates a small demo academy and prints development tokens
// for each role. It is safe to run twice: existing emails are reused.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"academy-be/internal/config"
	"academy-be/internal/entity"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/unitofwork"
	"academy-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "password123"

func main() {
	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		log.Fatal("Error: JWT_SECRET is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatal(err)
	}
	defer uow.Rollback()

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	users := uow.UserRepository()
	upsert := func(email, name string, role entity.UserRole, adminId *uuid.UUID) *entity.User {
		existing, err := users.FindByEmail(ctx, email)
		if err != nil {
			log.Fatalf("lookup %s: %v", email, err)
		}
		if existing != nil {
			return existing
		}
		h := string(hash)
		u := &entity.User{Email: email, PasswordHash: &h, FullName: name, Role: role, IsActive: true, AdminId: adminId}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", email, err)
		}
		return u
	}

	developer := upsert("dev@academy.local", "Platform Developer", entity.UserRoleDeveloper, nil)
	admin := upsert("admin@academy.local", "Demo Academy", entity.UserRoleAdmin, nil)
	teacher := upsert("teacher@academy.local", "Tara Teacher", entity.UserRoleTeacher, &admin.Id)
	parent := upsert("parent@academy.local", "Pat Parent", entity.UserRoleParent, &admin.Id)
	student := upsert("student@academy.local", "Sam Student", entity.UserRoleStudent, &admin.Id)

	if ids, err := users.FindStudentIdsOfParent(ctx, parent.Id); err == nil && len(ids) == 0 {
		if err := users.LinkParentStudent(ctx, &entity.ParentStudent{ParentId: parent.Id, StudentId: student.Id}); err != nil {
			log.Fatalf("link parent: %v", err)
		}
	}

	now := time.Now()
	adminId := admin.Id
	if subs, _, err := uow.SubscriptionRepository().FindAll(ctx, contract.SubscriptionFilter{AdminId: &adminId, Limit: 1}); err == nil && len(subs) == 0 {
		sub := &entity.Subscription{
			AdminId:   admin.Id,
			Plan:      "Standard",
			Amount:    decimal.NewFromInt(49),
			Currency:  "USD",
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
			Status:    entity.SubscriptionStatusActive,
			PaidDate:  &now,
		}
		if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
			log.Fatalf("create subscription: %v", err)
		}

		def := &entity.FeeDefinition{
			AdminId:       admin.Id,
			StudentId:     student.Id,
			Title:         "Monthly Tuition",
			Amount:        decimal.NewFromInt(150),
			Currency:      "USD",
			Cadence:       entity.FeeCadenceMonthly,
			GenerationDay: now.Day(),
			StartDate:     now.AddDate(0, 0, -1),
			IsActive:      true,
		}
		if err := uow.FeeRepository().CreateDefinition(ctx, def); err != nil {
			log.Fatalf("create fee definition: %v", err)
		}
	}

	if err := uow.Commit(); err != nil {
		log.Fatal(err)
	}

	color.Green("Seed complete. Password for every account: %s", demoPassword)
	ttl := time.Duration(cfg.Auth.TokenTTLHour) * time.Hour
	for _, u := range []*entity.User{developer, admin, teacher, parent, student} {
		token, err := serverutils.GenerateToken(cfg.Auth.JwtSecret, serverutils.Principal{UserId: u.Id, Role: u.Role, AdminId: u.AdminId}, ttl)
		if err != nil {
			log.Fatal(err)
		}
		color.Cyan("%-9s %s", u.Role, u.Email)
		fmt.Println(token)
	}
}
