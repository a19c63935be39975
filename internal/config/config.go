package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                      string
	VerifyToken               string
	WhatsAppToken             string
	PhoneNumberID             string
	WhatsAppBusinessAccountID string

	// Organization this deployment's webhook traffic belongs to.
	DefaultOrgID string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SQLite path used when DB_HOST is empty (local dev).
	DBPath string

	// OTP code lifetime in seconds.
	OTPTTLSeconds int

	// Quiet hours for campaign sends, org-local "HH:MM".
	QuietHoursStart string
	QuietHoursEnd   string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:                      getEnv("PORT", "8080"),
		VerifyToken:               getEnv("VERIFY_TOKEN", ""),
		WhatsAppToken:             getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:             getEnv("PHONE_NUMBER_ID", ""),
		WhatsAppBusinessAccountID: getEnv("WABA_ID", ""),
		DefaultOrgID:              getEnv("ORG_ID", "default"),
		DBHost:                    getEnv("DB_HOST", ""),
		DBPort:                    getEnv("DB_PORT", "5432"),
		DBUser:                    getEnv("DB_USER", "postgres"),
		DBPassword:                getEnv("DB_PASSWORD", ""),
		DBName:                    getEnv("DB_NAME", "whatsapp_crm"),
		DBSSLMode:                 getEnv("DB_SSLMODE", "disable"),
		DBPath:                    getEnv("DB_PATH", "./whatsapp-crm.db"),
		OTPTTLSeconds:             getEnvInt("OTP_TTL_SECONDS", 300),
		QuietHoursStart:           getEnv("QUIET_HOURS_START", "21:00"),
		QuietHoursEnd:             getEnv("QUIET_HOURS_END", "09:00"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
