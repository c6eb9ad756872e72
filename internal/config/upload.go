package config

type UploadConfig struct {
	UploadDir      string
	AvatarDir      string
	MaxUploadBytes int64
	ImageChunkSize int
}

func LoadUploadConfig() *UploadConfig {
	return &UploadConfig{
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AvatarDir:      getEnv("AVATAR_DIR", "uploads/avatars"),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 32<<20)),
		ImageChunkSize: getEnvAsInt("IMAGE_CHUNK_SIZE", 1<<20),
	}
}
