package permissions

import "time"

// Permission grants a user every action matching Action on every resource matching Resource.
// Both fields are glob patterns, so ("*", "*") is the root grant and
// ("news_post.*", "news_post/*") covers every news post operation.
type Permission struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
}
