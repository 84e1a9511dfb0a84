package handler

import "github.com/b2blink/marketplace-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Role              string   `json:"role"               validate:"required,oneof=buyer seller"`
	Prefix            string   `json:"prefix"             validate:"required"`
	FirstName         string   `json:"first_name"         validate:"required"`
	LastName          string   `json:"last_name"          validate:"required"`
	Email             string   `json:"email"              validate:"required,email"`
	Mobile            string   `json:"mobile"             validate:"required"`
	Password          string   `json:"password"           validate:"required,min=8"`
	PasswordConfirm   string   `json:"password_confirm"   validate:"required,eqfield=Password"`
	Designation       string   `json:"designation"`
	Country           string   `json:"country"            validate:"required"`
	SectorsOfInterest []string `json:"sectors_of_interest"`
	FunctionalAreas   []string `json:"functional_areas"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type otpVerifyRequest struct {
	OTPID string `json:"otp_id" validate:"required"`
	// Generated codes are 8 digits; the max mirrors the input field cap.
	Code string `json:"code" validate:"required,max=8"`
}

type captchaVerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type updateProfileRequest struct {
	Prefix            *string  `json:"prefix,omitempty"`
	FirstName         *string  `json:"first_name,omitempty"`
	LastName          *string  `json:"last_name,omitempty"`
	Mobile            *string  `json:"mobile,omitempty"`
	Designation       *string  `json:"designation,omitempty"`
	Country           *string  `json:"country,omitempty"`
	SectorsOfInterest []string `json:"sectors_of_interest,omitempty"`
	FunctionalAreas   []string `json:"functional_areas,omitempty"`
}

type authResponse struct {
	Token    string           `json:"token,omitempty"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

type otpIssuedResponse struct {
	OTPID string `json:"otp_id"`
}

type okResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
