package request_models

type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Message string `json:"message" binding:"required,min=10,max=2000"`
}
