package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config is the full typed application configuration, loaded from the
// environment at startup. Validate before use: the process should fail
// fast on missing secrets rather than discover them mid-payment.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Razorpay RazorpayConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
	Company  CompanyConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string

	// Cloud SQL unix-socket connection name; empty for TCP
	InstanceConnectionName string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

type AdminConfig struct {
	APIKey string
}

type CompanyConfig struct {
	Name string
}

// DSN builds the Postgres connection string
func (c *DBConfig) DSN() string {
	if c.InstanceConnectionName != "" {
		// Production: connect via Cloud SQL unix socket
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			c.InstanceConnectionName, c.User, c.Password, c.Name)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

// Enabled reports whether email sending is configured
func (c *SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != ""
}

// Load reads configuration from the environment
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		DB: DBConfig{
			Host:                   getEnv("DB_HOST", "localhost"),
			Port:                   getEnv("DB_PORT", "5432"),
			User:                   getEnv("DB_USER", "postgres"),
			Password:               os.Getenv("DB_PASS"),
			Name:                   getEnv("DB_NAME", "rsa_policies"),
			InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getEnvInt("SMTP_PORT", 587),
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASS"),
			From:       getEnv("SMTP_FROM", "noreply@kalyanenterprises.in"),
			AdminEmail: os.Getenv("ADMIN_EMAIL"),
		},
		Admin: AdminConfig{
			APIKey: os.Getenv("ADMIN_API_KEY"),
		},
		Company: CompanyConfig{
			Name: getEnv("COMPANY_NAME", "Kalyan Enterprises"),
		},
	}
}

// Validate checks that everything the payment flow depends on is present
func (c *Config) Validate() error {
	if c.Razorpay.KeyID == "" {
		return errors.New("RAZORPAY_KEY_ID is required")
	}
	if c.Razorpay.KeySecret == "" {
		return errors.New("RAZORPAY_KEY_SECRET is required")
	}
	if c.SMTP.Enabled() && c.SMTP.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL is required when SMTP is configured")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
