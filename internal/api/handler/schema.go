package handler

// --- Requests ---

type registerRequest struct {
	Name                 string `json:"name"                  form:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 form:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              form:"password"              validate:"required,min=6,max=72"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"omitempty,eqfield=Password"`
	Birth                string `json:"birth"                 form:"birth"                 validate:"required,datetime=2006-01-02"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name"  form:"name"  validate:"required,max=255"`
	Email string `json:"email" form:"email" validate:"required,email,max=255"`
	Birth string `json:"birth" form:"birth" validate:"required,datetime=2006-01-02"`
}

// --- Responses ---

// userResponse is the public view of a user. It never carries the password
// hash.
type userResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Birth string   `json:"birth"`
	Photo *string  `json:"photo"`
	Roles []string `json:"roles"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    userResponse `json:"user"`
}

type usersEnvelope struct {
	Success bool           `json:"success"`
	Users   []userResponse `json:"users"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every 4xx/5xx response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
