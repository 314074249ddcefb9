package model

// SystemStats 系统统计数据
type SystemStats struct {
	TotalUsers          int `json:"total_users"`
	TotalPets           int `json:"total_pets"`
	TotalPosts          int `json:"total_posts"`
	ActiveAdoptionPosts int `json:"active_adoption_posts"`
	PendingApplications int `json:"pending_applications"`
	PendingDocuments    int `json:"pending_documents"`
}
