package initializers

import (
	"log"
	"os"

	"github.com/alhurwear/alhurwear-api/models"
	"golang.org/x/crypto/bcrypt"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.Customer{},
		&models.PromoCode{},
		&models.AdminUser{},
	)
	log.Println("Database synced successfully.")

	seedAdminUser()
}

// seedAdminUser creates the demo back-office account on first run. Username
// and password come from the environment so deployments can override them.
func seedAdminUser() {
	var count int64
	DB.Model(&models.AdminUser{}).Count(&count)
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Failed to hash admin password:", err)
		return
	}

	admin := models.AdminUser{Username: username, Password: string(hashed), Role: "admin"}
	if result := DB.Create(&admin); result.Error != nil {
		log.Println("Failed to seed admin user:", result.Error)
		return
	}
	log.Println("Seeded default admin user:", username)
}
