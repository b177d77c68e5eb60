package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// App menampung konfigurasi aplikasi dari environment.
type App struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Jam operasional lab untuk perhitungan slot
	LabOpen        string `envconfig:"LAB_OPEN" default:"08:00"`
	LabClose       string `envconfig:"LAB_CLOSE" default:"17:00"`
	LabSlotMinutes int    `envconfig:"LAB_SLOT_MINUTES" default:"60"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// InitDB membuka koneksi database sesuai DB_DRIVER (mysql | sqlite).
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")

	if driver == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "labreserve.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASS"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
