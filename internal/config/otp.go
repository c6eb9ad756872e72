package config

import (
	"os"
	"strconv"
	"time"
)

type OTPConfig struct {
	CodeLength         int
	CodeTTL            time.Duration
	KeyPrefix          string
	DefaultCountryCode string
	MessageTemplate    string
}

func LoadOTPConfig() *OTPConfig {
	return &OTPConfig{
		CodeLength:         getEnvAsInt("OTP_CODE_LENGTH", 6),
		CodeTTL:            getEnvAsDuration("OTP_CODE_TTL", 5*time.Minute),
		KeyPrefix:          getEnv("OTP_KEY_PREFIX", "otp:"),
		DefaultCountryCode: getEnv("OTP_DEFAULT_COUNTRY_CODE", "+91"),
		MessageTemplate:    getEnv("OTP_MESSAGE_TEMPLATE", "Your OTP is: %s"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
