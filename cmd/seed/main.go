package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medmsg/internal/cache"
	"medmsg/internal/config"
	"medmsg/internal/db"
	"medmsg/internal/model"
	"medmsg/internal/repository"
	"medmsg/internal/service"
)

type seedUser struct {
	Username   string
	Email      string
	Password   string
	Department string
	Position   string
}

type seedMessage struct {
	Sender    string
	Recipient string
	Content   string
	Priority  model.Priority
	Age       time.Duration
}

var demoUsers = []seedUser{
	{"ivanov_doctor", "ivanov@hospital.example", "password123", "Cardiology", "Physician"},
	{"petrov_nurse", "petrov@hospital.example", "password123", "Cardiology", "Nurse"},
	{"sidorova_head", "sidorova@hospital.example", "password123", "Neurology", "Head of Department"},
	{"admin", "admin@hospital.example", "admin123", "Administration", "Administrator"},
}

var demoMessages = []seedMessage{
	{"ivanov_doctor", "petrov_nurse", "Please prepare room 205 for a new patient admitted with coronary artery disease.", model.PriorityUrgent, 2 * time.Hour},
	{"petrov_nurse", "ivanov_doctor", "Room is ready. All required equipment has been checked.", model.PriorityNormal, 90 * time.Minute},
	{"sidorova_head", "ivanov_doctor", "EMERGENCY: cardiology consult needed in neurology. Patient with suspected myocardial infarction.", model.PriorityEmergency, 15 * time.Minute},
	{"admin", "ivanov_doctor", "Reminder: department heads meeting tomorrow at 14:00.", model.PriorityNormal, 3 * time.Hour},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Department{}, &model.User{}, &model.Message{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	deptRepo := repository.NewDepartmentRepository(gormDB)
	msgRepo := repository.NewMessageRepository(gormDB)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	deptService := service.NewDepartmentService(deptRepo, cacheClient)
	if err := deptService.SeedDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed departments: %v", err)
	}
	log.Println("Departments seeded")

	users, created, err := seedUsers(ctx, gormDB, userRepo, deptRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if created == 0 {
		log.Println("Demo users already present, leaving messages untouched")
		return
	}

	seeded, err := seedMessages(ctx, msgRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed messages: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", created)
	log.Printf("  - Messages created: %d", seeded)
	for _, u := range demoUsers {
		log.Printf("  - %s / %s (%s, %s)", u.Username, u.Password, u.Position, u.Department)
	}
}

func seedUsers(ctx context.Context, gormDB *gorm.DB, userRepo repository.UserRepository, deptRepo repository.DepartmentRepository) (map[string]*model.User, int, error) {
	users := make(map[string]*model.User, len(demoUsers))
	created := 0

	var deptByName = map[string]uint{}
	depts, err := deptRepo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, d := range depts {
		deptByName[d.Name] = d.ID
	}

	for _, su := range demoUsers {
		existing, err := userRepo.FindByUsername(ctx, su.Username)
		if err == nil {
			users[su.Username] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, created, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), 10)
		if err != nil {
			return nil, created, err
		}

		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: string(hash),
			DepartmentID: deptByName[su.Department],
			Position:     su.Position,
			Active:       true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return nil, created, err
		}
		users[su.Username] = user
		created++
	}

	return users, created, nil
}

func seedMessages(ctx context.Context, msgRepo repository.MessageRepository, users map[string]*model.User) (int, error) {
	seeded := 0
	now := time.Now().UTC()
	for _, sm := range demoMessages {
		sender, ok := users[sm.Sender]
		if !ok {
			continue
		}
		recipient, ok := users[sm.Recipient]
		if !ok {
			continue
		}

		msg := &model.Message{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Content:     sm.Content,
			Priority:    sm.Priority,
			Timestamp:   now.Add(-sm.Age),
		}
		if err := msgRepo.Create(ctx, msg); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
