package embedding

import (
	"time"
)

type Embedding struct {
	EntityID  string    `json:"entity_id"`
	Model     string    `json:"model"`
	Value     []float64 `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}

type Config struct {
	Provider    string      `json:"provider"`
	Model       string      `json:"model"`
	BaseURL     string      `json:"base_url,omitempty"`
	Credentials Credentials `json:"credentials"`
}
