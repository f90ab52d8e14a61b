package user

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `json:"password,omitempty"`
}

// EditorStats counts the publish attempts of a map editor account.
type EditorStats struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	UserID        uint `gorm:"uniqueIndex;not null" json:"user_id"`
	MapsPublished int  `json:"maps_published"`
	MapsRejected  int  `json:"maps_rejected"`
}

type EditorStatsResponse struct {
	Username       string  `json:"username"`
	TotalAttempts  int     `json:"totalAttempts"`
	Published      int     `json:"published"`
	Rejected       int     `json:"rejected"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}
