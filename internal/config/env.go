package config

import (
	"os"
	"strconv"
)

// ApplyEnv overlays PHOTODRIFT_* environment variables onto s and clamps the
// result. Unset or unparseable values leave the existing setting alone.
func ApplyEnv(s *Settings) {
	s.Gallery.TotalSlots = envInt("PHOTODRIFT_TOTAL_SLOTS", s.Gallery.TotalSlots)
	s.Gallery.Pattern = Pattern(envStr("PHOTODRIFT_PATTERN", string(s.Gallery.Pattern)))
	s.Gallery.PhotoSize = envFloat("PHOTODRIFT_PHOTO_SIZE", s.Gallery.PhotoSize)
	s.Gallery.Spacing = envFloat("PHOTODRIFT_SPACING", s.Gallery.Spacing)
	s.Gallery.AnimationEnabled = envBool("PHOTODRIFT_LAYOUT_ANIMATION", s.Gallery.AnimationEnabled)
	s.Gallery.AnimationSpeed = envFloat("PHOTODRIFT_LAYOUT_SPEED", s.Gallery.AnimationSpeed)

	s.Camera.Enabled = envBool("PHOTODRIFT_CAMERA_ENABLED", s.Camera.Enabled)
	s.Camera.Type = AnimationType(envStr("PHOTODRIFT_CAMERA_TYPE", string(s.Camera.Type)))
	s.Camera.Speed = envFloat("PHOTODRIFT_CAMERA_SPEED", s.Camera.Speed)
	s.Camera.FocusDistance = envFloat("PHOTODRIFT_FOCUS_DISTANCE", s.Camera.FocusDistance)
	s.Camera.PauseTime = envFloat("PHOTODRIFT_PAUSE_TIME", s.Camera.PauseTime)
	s.Camera.ResumeDelay = envFloat("PHOTODRIFT_RESUME_DELAY", s.Camera.ResumeDelay)
	s.Camera.BlendDuration = envFloat("PHOTODRIFT_BLEND_DURATION", s.Camera.BlendDuration)

	s.Server.Addr = envStr("PHOTODRIFT_ADDR", s.Server.Addr)
	s.Server.TickRate = envInt("PHOTODRIFT_TICK_RATE", s.Server.TickRate)

	s.Clamp()
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
