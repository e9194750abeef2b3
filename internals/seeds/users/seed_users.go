package users

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"

	"gorm.io/gorm"

	authService "library_backend/internals/features/users/auth/service"
	"library_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Staff    bool   `json:"staff"`
}

func SeedUsersFromJSON(db *gorm.DB, fsys fs.FS, name string) error {
	log.Println("📥 Reading user seed:", name)

	file, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return err
	}

	for _, data := range inputs {
		var existing model.UserModel
		err := db.Where("user_name = ?", data.UserName).First(&existing).Error
		if err == nil {
			log.Printf("ℹ️ User '%s' already exists, skipped.", data.UserName)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := authService.HashPassword(data.Password)
		if err != nil {
			return err
		}

		newUser := model.UserModel{
			UserName:    data.UserName,
			Password:    hashed,
			IsActive:    true,
			IsStaff:     data.Staff,
			IsSuperuser: data.Staff,
		}
		if data.Email != "" {
			email := data.Email
			newUser.Email = &email
		}
		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("❌ Failed to insert user '%s': %v", data.UserName, err)
			continue
		}
		log.Printf("✅ Inserted user '%s'", data.UserName)
	}
	return nil
}
