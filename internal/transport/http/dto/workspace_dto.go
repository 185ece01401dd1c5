package dto

type WriteFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (r *WriteFileRequest) Validate() []string {
	var errors []string
	if r.Path == "" {
		errors = append(errors, "path is required")
	}
	return errors
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() []string {
	var errors []string
	if r.Username == "" {
		errors = append(errors, "username is required")
	}
	if r.Password == "" {
		errors = append(errors, "password is required")
	}
	return errors
}

type LoginResponse struct {
	Token string `json:"token"`
}
