package dto

type CreateProblemRequest struct {
	Name string   `json:"name" binding:"required"`
	Link string   `json:"link" binding:"required"`
	Tags []string `json:"tags"`
}

// UpdateProblemRequest updates only the fields that are present.
type UpdateProblemRequest struct {
	Name string   `json:"name"`
	Link string   `json:"link"`
	Tags []string `json:"tags"`
}
