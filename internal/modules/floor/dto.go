package floor

type AddProjectRequest struct {
	ProjectName string   `json:"project_name" binding:"required"`
	X           *float64 `json:"x" binding:"required"`
	Y           *float64 `json:"y" binding:"required"`
}

type MoveProjectRequest struct {
	ProjectName string   `json:"project_name" binding:"required"`
	X           *float64 `json:"x" binding:"required"`
	Y           *float64 `json:"y" binding:"required"`
}

type UpdateDetailsRequest struct {
	Details *string `json:"details" binding:"required"`
}
