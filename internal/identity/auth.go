package identity

import (
	"context"

	"classattend/internal/apperr"
)

// LoginResult is the outcome of a credential check.
type LoginResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserType string `json:"user_type,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// AuthService authenticates admins and students. Credentials are compared
// verbatim; hashing and tokens are out of scope here.
type AuthService struct {
	admins   *AdminService
	students *StudentService
}

// NewAuthService creates a service over both identity services.
func NewAuthService(admins *AdminService, students *StudentService) *AuthService {
	return &AuthService{admins: admins, students: students}
}

// Authenticate checks the credentials for the given user type. Lookup
// misses and bad passwords both come back as unsuccessful results, never
// as errors.
func (s *AuthService) Authenticate(ctx context.Context, userType, email, password string) (LoginResult, error) {
	switch userType {
	case "admin":
		a, err := s.admins.FindByEmail(ctx, email)
		if err != nil {
			if apperr.IsNotFound(err) {
				return LoginResult{Message: "Admin not found"}, nil
			}
			return LoginResult{}, err
		}
		if a.Password != password {
			return LoginResult{Message: "Invalid password"}, nil
		}
		return LoginResult{Success: true, Message: "Login successful", UserType: "admin", ID: a.ID, Name: a.Name, Email: a.Email}, nil
	case "student":
		st, err := s.students.FindByEmail(ctx, email)
		if err != nil {
			if apperr.IsNotFound(err) {
				return LoginResult{Message: "Student not found"}, nil
			}
			return LoginResult{}, err
		}
		if st.Password != password {
			return LoginResult{Message: "Invalid credentials"}, nil
		}
		return LoginResult{Success: true, Message: "Login successful", UserType: "student", ID: st.ID, Name: st.Name, Email: st.Email}, nil
	default:
		return LoginResult{Message: "Invalid user type"}, nil
	}
}
